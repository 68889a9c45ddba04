package validator

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/consts"
	"github.com/ozontech/propescape/engine"
	"github.com/ozontech/propescape/logger"
	"github.com/ozontech/propescape/metric"
	"github.com/ozontech/propescape/pattern"
	"github.com/ozontech/propescape/report"
)

// Assertion is one property under test: every alias must match each
// character of Match and none of NonMatch, and the negated escape the other
// way round.
type Assertion struct {
	Property string
	Aliases  []string
	Match    *codepoint.TestString
	NonMatch *codepoint.TestString
}

type Result struct {
	Property   string
	Checks     int
	Violations []Violation
}

func (r *Result) Passed() bool {
	return len(r.Violations) == 0
}

func (r *Result) Count(kind Kind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Err combines every violation, nil when the assertion passed.
func (r *Result) Err() error {
	var err error
	for _, v := range r.Violations {
		err = multierr.Append(err, v)
	}
	return err
}

type Option func(*Validator)

func WithReporter(r report.Reporter) Option {
	return func(v *Validator) {
		v.reporter = r
	}
}

// Validator checks assertions against one engine. It keeps no state between
// calls and can be shared by goroutines if its reporter can.
type Validator struct {
	eng      engine.Engine
	reporter report.Reporter
}

func New(eng engine.Engine, opts ...Option) *Validator {
	v := &Validator{
		eng:      eng,
		reporter: report.Discard,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

func polarity(e pattern.Escape) string {
	if e.Negated {
		return "negative"
	}
	return "positive"
}

// unit is one (escape, string, expected outcome) triple.
type unit struct {
	escape   pattern.Escape
	input    *codepoint.TestString
	want     bool
	outcomes Outcomes
	rejected bool
}

func (v *Validator) run(u *unit, res *Result) {
	outcomes, err := Check(v.eng, u.escape, u.input, u.want)
	if err != nil {
		u.rejected = true
		viol := Violation{Kind: KindPatternRejected, Escape: u.escape, CodePoint: -1, Want: u.want, Err: err}
		res.Violations = append(res.Violations, viol)
		v.reporter.Report(report.Record{Passed: false, Label: viol.Error()})
		return
	}
	u.outcomes = outcomes

	for cp, matched := range outcomes.All() {
		passed := matched == u.want
		res.Checks++
		v.reporter.Report(report.Record{Passed: passed, Label: matchLabel(u.escape, cp, u.want)})
		if !passed {
			res.Violations = append(res.Violations, Violation{
				Kind:      KindMismatch,
				Escape:    u.escape,
				CodePoint: cp,
				Want:      u.want,
			})
		}
	}
	metric.ChecksTotal.WithLabelValues(polarity(u.escape)).Add(float64(outcomes.Len()))
}

// CheckEscape checks that esc matches every character of match and none of
// nonMatch.
func (v *Validator) CheckEscape(esc pattern.Escape, match, nonMatch *codepoint.TestString) *Result {
	res := &Result{Property: esc.Expr.String()}
	v.run(&unit{escape: esc, input: match, want: true}, res)
	v.run(&unit{escape: esc, input: nonMatch, want: false}, res)
	return res
}

func (a Assertion) validate() ([]pattern.Expr, error) {
	if len(a.Aliases) == 0 {
		return nil, fmt.Errorf("%q: no aliases: %w", a.Property, consts.ErrInvalidAssertion)
	}
	if a.Match == nil || a.NonMatch == nil {
		return nil, fmt.Errorf("%q: missing test string: %w", a.Property, consts.ErrInvalidAssertion)
	}
	exprs := make([]pattern.Expr, 0, len(a.Aliases))
	for _, alias := range a.Aliases {
		e, err := pattern.Parse(alias)
		if err != nil {
			return nil, fmt.Errorf("%q: alias %q: %w", a.Property, alias, err)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// Validate checks every alias in both polarities against both strings and
// reports all violations found. The error is returned only for a malformed
// assertion, before anything is checked.
func (v *Validator) Validate(a Assertion) (*Result, error) {
	exprs, err := a.validate()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	res := &Result{Property: a.Property}
	units := make([]*unit, 0, len(exprs)*4)
	for _, expr := range exprs {
		pos := pattern.Escape{Expr: expr}
		neg := pos.Invert()
		units = append(units,
			&unit{escape: pos, input: a.Match, want: true},
			&unit{escape: pos, input: a.NonMatch, want: false},
			&unit{escape: neg, input: a.NonMatch, want: true},
			&unit{escape: neg, input: a.Match, want: false},
		)
	}
	for _, u := range units {
		v.run(u, res)
	}
	v.compareAliases(units, res)

	for _, viol := range res.Violations {
		metric.ViolationsTotal.WithLabelValues(viol.Kind.String()).Inc()
	}
	metric.ValidateDurationSeconds.Observe(time.Since(start).Seconds())

	logger.Debug("property validated",
		zap.String("property", a.Property),
		zap.String("engine", v.eng.Name()),
		zap.Int("aliases", len(exprs)),
		zap.Int("checks", res.Checks),
		zap.Int("violations", len(res.Violations)),
	)
	return res, nil
}

// compareAliases reports characters on which an alias disagrees with the
// first accepted alias for the same polarity and string.
func (v *Validator) compareAliases(units []*unit, res *Result) {
	const perAlias = 4
	for slot := 0; slot < perAlias; slot++ {
		var ref *unit
		for i := slot; i < len(units); i += perAlias {
			u := units[i]
			if u.rejected {
				continue
			}
			if ref == nil {
				ref = u
				continue
			}
			for k := 0; k < u.outcomes.Len(); k++ {
				if u.outcomes.Matched(k) == ref.outcomes.Matched(k) {
					continue
				}
				viol := Violation{
					Kind:      KindAliasDivergence,
					Escape:    ref.escape,
					Other:     u.escape,
					CodePoint: u.input.At(k),
					Want:      u.want,
				}
				res.Violations = append(res.Violations, viol)
				v.reporter.Report(report.Record{Passed: false, Label: viol.Error()})
			}
		}
	}
}
