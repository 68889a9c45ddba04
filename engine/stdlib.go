package engine

import (
	"regexp"

	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/pattern"
)

// Stdlib runs patterns on Go's RE2 implementation.
type Stdlib struct{}

func NewStdlib() *Stdlib {
	return &Stdlib{}
}

func (*Stdlib) Name() string {
	return string(conf.EngineStdlib)
}

func (*Stdlib) Compile(p string) (Matcher, error) {
	native, err := pattern.Rewrite(p, scriptEscape)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(native)
	if err != nil {
		return nil, err
	}
	return stdlibMatcher{re: re}, nil
}

type stdlibMatcher struct {
	re *regexp.Regexp
}

func (m stdlibMatcher) MatchString(s string) (bool, error) {
	return m.re.MatchString(s), nil
}
