package engine

import (
	"fmt"

	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/consts"
	"github.com/ozontech/propescape/pattern"
	"github.com/ozontech/propescape/ucd"
)

// Matcher is a compiled pattern.
type Matcher interface {
	MatchString(s string) (bool, error)
}

// Engine compiles patterns written with property escapes. Compile errors
// mean the engine rejected the pattern.
//
// The bundled adapters resolve Script aliases through ucd and pass the engine
// `\p{Long_Name}` only, so every alias of a script reaches it spelled the
// same way and aliases can't disagree. They also accept spellings the engine
// would refuse on its own, such as `\p{Grek}` for Go regexp.
type Engine interface {
	Name() string
	Compile(pattern string) (Matcher, error)
}

// scriptEscape rewrites a Script property escape into the single-name form
// `\p{Long_Name}` that both Go regexp and regexp2 understand. Lone values
// that are not scripts (general categories such as `L`) are kept as is.
func scriptEscape(e pattern.Escape) (string, error) {
	if e.Expr.Name != "" {
		prop, err := ucd.LookupProperty(e.Expr.Name)
		if err != nil {
			return "", err
		}
		if prop != ucd.PropScript {
			return "", fmt.Errorf("%w: %s", consts.ErrUnsupported, prop)
		}
	}
	s, err := ucd.LookupScript(e.Expr.Value)
	if err != nil {
		if e.Expr.Name == "" {
			return e.String(), nil
		}
		return "", err
	}
	e.Expr = pattern.Expr{Value: s.Long}
	return e.String(), nil
}

func ByName(name string) (Engine, error) {
	switch conf.Engine(name) {
	case conf.EngineStdlib:
		return NewStdlib(), nil
	case conf.EngineRegexp2:
		return NewRegexp2(conf.MatchTimeout), nil
	}
	return nil, fmt.Errorf("%w: %q", consts.ErrUnknownEngine, name)
}

func Names() []string {
	return []string{string(conf.EngineStdlib), string(conf.EngineRegexp2)}
}
