package codepoint

import (
	"fmt"

	"github.com/ozontech/propescape/consts"
)

// Range is an inclusive interval of code points.
type Range struct {
	Low  rune
	High rune
}

func (r Range) Len() int {
	return int(r.High-r.Low) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%U, %U]", r.Low, r.High)
}

// Spec declares a set of code points as lone values plus inclusive ranges.
// Ranges are kept as bounds and are expanded only when a TestString is built.
type Spec struct {
	LoneCodePoints []rune
	Ranges         []Range
}

func (s Spec) IsEmpty() bool {
	return len(s.LoneCodePoints) == 0 && len(s.Ranges) == 0
}

// Count returns the number of declared code points, overlaps included.
func (s Spec) Count() int {
	n := len(s.LoneCodePoints)
	for _, r := range s.Ranges {
		n += r.Len()
	}
	return n
}

// Validate reports the first malformed declaration.
func (s Spec) Validate() error {
	if s.IsEmpty() {
		return consts.ErrEmptySpec
	}
	for _, cp := range s.LoneCodePoints {
		if err := checkCodePoint(cp); err != nil {
			return err
		}
	}
	for _, r := range s.Ranges {
		if err := checkCodePoint(r.Low); err != nil {
			return fmt.Errorf("range %s: %w", r, err)
		}
		if err := checkCodePoint(r.High); err != nil {
			return fmt.Errorf("range %s: %w", r, err)
		}
		if r.Low > r.High {
			return fmt.Errorf("range %s: %w", r, consts.ErrInvertedRange)
		}
		if r.Low < consts.SurrogateLow && r.High > consts.SurrogateHigh {
			return fmt.Errorf("range %s spans the surrogate block: %w", r, consts.ErrSurrogate)
		}
	}
	return nil
}

func checkCodePoint(cp rune) error {
	if cp < 0 || cp > consts.MaxCodePoint {
		return fmt.Errorf("%#x: %w", cp, consts.ErrOutOfRange)
	}
	if IsSurrogate(cp) {
		return fmt.Errorf("%U: %w", cp, consts.ErrSurrogate)
	}
	return nil
}

func IsSurrogate(cp rune) bool {
	return consts.SurrogateLow <= cp && cp <= consts.SurrogateHigh
}
