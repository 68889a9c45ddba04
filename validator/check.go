package validator

import (
	"fmt"
	"iter"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/engine"
	"github.com/ozontech/propescape/metric"
	"github.com/ozontech/propescape/pattern"
)

// Outcomes holds whether an escape matched each character of a test string.
type Outcomes struct {
	input   *codepoint.TestString
	matched []bool
}

func (o Outcomes) Len() int {
	return len(o.matched)
}

func (o Outcomes) Matched(i int) bool {
	return o.matched[i]
}

// All yields every character with its outcome, in input order.
func (o Outcomes) All() iter.Seq2[rune, bool] {
	return func(yield func(rune, bool) bool) {
		for i, m := range o.matched {
			if !yield(o.input.At(i), m) {
				return
			}
		}
	}
}

func compile(eng engine.Engine, p string) (engine.Matcher, error) {
	m, err := eng.Compile(p)
	if err != nil {
		return nil, err
	}
	metric.PatternsCompiled.Inc()
	return m, nil
}

func filled(n int, v bool) []bool {
	out := make([]bool, n)
	if v {
		for i := range out {
			out[i] = true
		}
	}
	return out
}

// Check runs esc on every character of s. want is the expected outcome for
// all of them and only selects a shortcut: the whole string is tried at once
// first and characters are checked one by one only when that attempt does
// not confirm want. The outcomes are the same either way.
func Check(eng engine.Engine, esc pattern.Escape, s *codepoint.TestString, want bool) (Outcomes, error) {
	out := Outcomes{input: s}
	if s.Len() == 0 {
		return out, nil
	}

	whole := pattern.Anywhere(esc)
	if want {
		whole = pattern.Whole(esc)
	}
	m, err := compile(eng, whole)
	if err != nil {
		return out, err
	}
	ok, err := m.MatchString(s.String())
	if err != nil {
		return out, fmt.Errorf("matching %s: %w", whole, err)
	}
	if ok == want {
		out.matched = filled(s.Len(), want)
		return out, nil
	}

	single, err := compile(eng, pattern.Single(esc))
	if err != nil {
		return out, err
	}
	out.matched = make([]bool, 0, s.Len())
	for _, r := range s.All() {
		ok, err := single.MatchString(string(r))
		if err != nil {
			return Outcomes{input: s}, fmt.Errorf("matching %U: %w", r, err)
		}
		out.matched = append(out.matched, ok)
	}
	return out, nil
}
