package validator

import (
	"fmt"

	"github.com/ozontech/propescape/pattern"
)

type Kind int

const (
	// KindMismatch: the engine classified a character against the ground truth.
	KindMismatch Kind = iota
	// KindPatternRejected: the engine could not compile or run the escape.
	KindPatternRejected
	// KindAliasDivergence: two spellings of one property disagree on a character.
	KindAliasDivergence
)

func (k Kind) String() string {
	switch k {
	case KindMismatch:
		return "mismatch"
	case KindPatternRejected:
		return "pattern_rejected"
	case KindAliasDivergence:
		return "alias_divergence"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Violation struct {
	Kind   Kind
	Escape pattern.Escape
	// Other is the diverging alias, set for KindAliasDivergence only.
	Other     pattern.Escape
	CodePoint rune
	// Want is the expected outcome of Escape on CodePoint.
	Want bool
	Err  error
}

func matchLabel(e pattern.Escape, cp rune, want bool) string {
	if want {
		return fmt.Sprintf("`%s` should match %U", e, cp)
	}
	return fmt.Sprintf("`%s` should not match %U", e, cp)
}

func (v Violation) Error() string {
	switch v.Kind {
	case KindMismatch:
		return matchLabel(v.Escape, v.CodePoint, v.Want)
	case KindPatternRejected:
		return fmt.Sprintf("`%s` rejected: %v", v.Escape, v.Err)
	case KindAliasDivergence:
		return fmt.Sprintf("`%s` and `%s` disagree on %U", v.Escape, v.Other, v.CodePoint)
	}
	return v.Kind.String()
}

func (v Violation) Unwrap() error {
	return v.Err
}
