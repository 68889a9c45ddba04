package pattern

import (
	"fmt"
	"strings"

	"github.com/ozontech/propescape/consts"
)

// Expr is the body of a property escape: `Script=Tai_Tham`, `sc=Lana` or a lone `Tai_Tham`.
type Expr struct {
	Name  string // empty for a lone value
	Value string
}

func (e Expr) String() string {
	if e.Name == "" {
		return e.Value
	}
	return e.Name + "=" + e.Value
}

func isNameChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func checkPart(s, part string) error {
	if s == "" {
		return fmt.Errorf("%w: empty %s", consts.ErrBadExpression, part)
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return fmt.Errorf("%w: unexpected %q in %s %q", consts.ErrBadExpression, s[i], part, s)
		}
	}
	return nil
}

func Parse(s string) (Expr, error) {
	name, value, found := strings.Cut(s, "=")
	if !found {
		if err := checkPart(s, "value"); err != nil {
			return Expr{}, err
		}
		return Expr{Value: s}, nil
	}
	if err := checkPart(name, "name"); err != nil {
		return Expr{}, err
	}
	if err := checkPart(value, "value"); err != nil {
		return Expr{}, err
	}
	return Expr{Name: name, Value: value}, nil
}

func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// Escape is `\p{Expr}` or, negated, `\P{Expr}`.
type Escape struct {
	Expr    Expr
	Negated bool
}

func (e Escape) String() string {
	if e.Negated {
		return `\P{` + e.Expr.String() + `}`
	}
	return `\p{` + e.Expr.String() + `}`
}

// Invert flips the polarity.
func (e Escape) Invert() Escape {
	e.Negated = !e.Negated
	return e
}

func ParseEscape(s string) (Escape, error) {
	if len(s) < 4 || s[0] != '\\' || (s[1] != 'p' && s[1] != 'P') || s[2] != '{' || s[len(s)-1] != '}' {
		return Escape{}, fmt.Errorf("%w: %q is not a property escape", consts.ErrBadExpression, s)
	}
	expr, err := Parse(s[3 : len(s)-1])
	if err != nil {
		return Escape{}, err
	}
	return Escape{Expr: expr, Negated: s[1] == 'P'}, nil
}

// Rewrite replaces every property escape of p with fn's output. Other escapes
// and literal text are copied as is.
func Rewrite(p string, fn func(Escape) (string, error)) (string, error) {
	var b strings.Builder
	b.Grow(len(p))
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c != '\\' || i+1 >= len(p) {
			b.WriteByte(c)
			continue
		}
		next := p[i+1]
		if (next != 'p' && next != 'P') || i+2 >= len(p) || p[i+2] != '{' {
			b.WriteByte(c)
			b.WriteByte(next)
			i++
			continue
		}
		end := strings.IndexByte(p[i+3:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated escape at offset %d of %q", consts.ErrBadExpression, i, p)
		}
		end += i + 3

		esc, err := ParseEscape(p[i : end+1])
		if err != nil {
			return "", err
		}
		repl, err := fn(esc)
		if err != nil {
			return "", err
		}
		b.WriteString(repl)
		i = end
	}
	return b.String(), nil
}

// Whole matches a string made only of characters accepted by the escape.
func Whole(e Escape) string {
	return `\A` + e.String() + `+\z`
}

// Single matches exactly one character accepted by the escape.
func Single(e Escape) string {
	return `\A` + e.String() + `\z`
}

// Anywhere matches any string with at least one character accepted by the escape.
func Anywhere(e Escape) string {
	return e.String()
}
