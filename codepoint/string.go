package codepoint

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ozontech/propescape/consts"
)

// TestString is a sequence of scalar values produced by Build.
type TestString struct {
	runes []rune
	size  int // UTF-8 bytes
}

func (s *TestString) Len() int {
	return len(s.runes)
}

func (s *TestString) At(i int) rune {
	return s.runes[i]
}

// Size is the UTF-8 encoded length in bytes.
func (s *TestString) Size() int {
	return s.size
}

func (s *TestString) Runes() []rune {
	return append([]rune(nil), s.runes...)
}

// All yields every character with its position. The sequence can be restarted.
func (s *TestString) All() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for i, r := range s.runes {
			if !yield(i, r) {
				return
			}
		}
	}
}

func (s *TestString) String() string {
	var b strings.Builder
	b.Grow(s.size)
	for _, r := range s.runes {
		b.WriteRune(r)
	}
	return b.String()
}

// UTF16 encodes the string with one unit per BMP character and a surrogate
// pair per supplementary character.
func (s *TestString) UTF16() []uint16 {
	return utf16.Encode(s.runes)
}

// DecodeUTF16 is the inverse of TestString.UTF16. Unpaired surrogates are an error.
func DecodeUTF16(units []uint16) ([]rune, error) {
	out := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := rune(units[i])
		if !IsSurrogate(u) {
			out = append(out, u)
			continue
		}
		if i+1 >= len(units) {
			return nil, fmt.Errorf("unit %d %#04x: %w", i, u, consts.ErrSurrogate)
		}
		r := utf16.DecodeRune(u, rune(units[i+1]))
		if r == utf8.RuneError {
			return nil, fmt.Errorf("units %d %#04x %#04x: %w", i, u, units[i+1], consts.ErrSurrogate)
		}
		out = append(out, r)
		i++
	}
	return out, nil
}
