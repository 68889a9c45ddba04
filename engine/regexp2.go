package engine

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/pattern"
)

// Regexp2 runs patterns on github.com/dlclark/regexp2, a backtracking engine
// with .NET syntax. A zero timeout disables the match deadline.
type Regexp2 struct {
	timeout time.Duration
}

func NewRegexp2(timeout time.Duration) *Regexp2 {
	return &Regexp2{timeout: timeout}
}

func (*Regexp2) Name() string {
	return string(conf.EngineRegexp2)
}

func (e *Regexp2) Compile(p string) (Matcher, error) {
	native, err := pattern.Rewrite(p, scriptEscape)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(native, regexp2.None)
	if err != nil {
		return nil, err
	}
	if e.timeout > 0 {
		re.MatchTimeout = e.timeout
	}
	return re, nil
}
