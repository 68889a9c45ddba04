package suite

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/multierr"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/consts"
	"github.com/ozontech/propescape/pattern"
	"github.com/ozontech/propescape/ucd"
)

// CodePoint is written as U+XXXX. 0x-prefixed hex and plain decimal are
// accepted on read.
type CodePoint rune

func (c CodePoint) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%U", rune(c)), nil
}

func (c *CodePoint) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	cp, err := ParseCodePoint(raw)
	if err != nil {
		return err
	}
	*c = CodePoint(cp)
	return nil
}

func ParseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	base, digits := 10, s
	switch {
	case strings.HasPrefix(s, "U+"), strings.HasPrefix(s, "u+"):
		base, digits = 16, s[2:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, digits = 16, s[2:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", consts.ErrBadCodePoint, s)
	}
	if v > consts.MaxCodePoint {
		return 0, fmt.Errorf("%w: %q", consts.ErrOutOfRange, s)
	}
	return rune(v), nil
}

type Range struct {
	Low  CodePoint `yaml:"low"`
	High CodePoint `yaml:"high"`
}

type CodePoints struct {
	LoneCodePoints []CodePoint `yaml:"lone_code_points,omitempty,flow"`
	Ranges         []Range     `yaml:"ranges,omitempty"`
}

func (c CodePoints) Spec() codepoint.Spec {
	spec := codepoint.Spec{
		LoneCodePoints: make([]rune, 0, len(c.LoneCodePoints)),
		Ranges:         make([]codepoint.Range, 0, len(c.Ranges)),
	}
	for _, cp := range c.LoneCodePoints {
		spec.LoneCodePoints = append(spec.LoneCodePoints, rune(cp))
	}
	for _, r := range c.Ranges {
		spec.Ranges = append(spec.Ranges, codepoint.Range{Low: rune(r.Low), High: rune(r.High)})
	}
	return spec
}

func FromSpec(spec codepoint.Spec) CodePoints {
	var c CodePoints
	for _, cp := range spec.LoneCodePoints {
		c.LoneCodePoints = append(c.LoneCodePoints, CodePoint(cp))
	}
	for _, r := range spec.Ranges {
		c.Ranges = append(c.Ranges, Range{Low: CodePoint(r.Low), High: CodePoint(r.High)})
	}
	return c
}

type Case struct {
	Property string     `yaml:"property"`
	Aliases  []string   `yaml:"aliases,flow"`
	Match    CodePoints `yaml:"match"`
	NonMatch CodePoints `yaml:"non_match"`
}

func (c *Case) validate() error {
	var err error
	if c.Property == "" {
		err = multierr.Append(err, fmt.Errorf("%w: empty property", consts.ErrInvalidSuite))
	}
	if len(c.Aliases) == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: no aliases", consts.ErrInvalidSuite))
	}
	for _, a := range c.Aliases {
		if _, perr := pattern.Parse(a); perr != nil {
			err = multierr.Append(err, fmt.Errorf("alias %q: %w", a, perr))
		}
	}
	if verr := c.Match.Spec().Validate(); verr != nil {
		err = multierr.Append(err, fmt.Errorf("match: %w", verr))
	}
	if verr := c.NonMatch.Spec().Validate(); verr != nil {
		err = multierr.Append(err, fmt.Errorf("non_match: %w", verr))
	}
	return err
}

type Suite struct {
	UnicodeVersion string `yaml:"unicode_version"`
	Cases          []Case `yaml:"cases"`
}

// Validate reports every problem of every case, not only the first one.
func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return consts.ErrEmptySuite
	}
	var err error
	for i := range s.Cases {
		c := &s.Cases[i]
		for _, cerr := range multierr.Errors(c.validate()) {
			err = multierr.Append(err, fmt.Errorf("case %d (%s): %w", i, c.Property, cerr))
		}
	}
	return err
}

// FromUCD builds a suite from cases derived from the Go Unicode tables.
func FromUCD(cases []ucd.PropertyCase) *Suite {
	s := &Suite{
		UnicodeVersion: unicode.Version,
		Cases:          make([]Case, 0, len(cases)),
	}
	for _, c := range cases {
		s.Cases = append(s.Cases, Case{
			Property: c.Property,
			Aliases:  c.Aliases,
			Match:    FromSpec(c.Match),
			NonMatch: FromSpec(c.NonMatch),
		})
	}
	return s
}
