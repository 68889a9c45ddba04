package ucd

import (
	"fmt"
	"slices"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/consts"
)

// PropertyCase is the ground truth for one property value: the code points
// that have it and the ones that do not.
type PropertyCase struct {
	Property string
	Aliases  []string
	Match    codepoint.Spec
	NonMatch codepoint.Spec
}

// fromRuns turns sorted disjoint runs into a spec; one-element runs become lone code points.
func fromRuns(runs []codepoint.Range) codepoint.Spec {
	var spec codepoint.Spec
	for _, r := range runs {
		if r.Low == r.High {
			spec.LoneCodePoints = append(spec.LoneCodePoints, r.Low)
			continue
		}
		spec.Ranges = append(spec.Ranges, r)
	}
	return spec
}

// FromTable lists the code points of rt as a spec.
func FromTable(rt *unicode.RangeTable) codepoint.Spec {
	var runs []codepoint.Range
	rangetable.Visit(rt, func(r rune) {
		if n := len(runs); n > 0 && runs[n-1].High+1 == r {
			runs[n-1].High = r
			return
		}
		runs = append(runs, codepoint.Range{Low: r, High: r})
	})
	return fromRuns(runs)
}

// normalize returns the sorted, merged runs declared by spec.
func normalize(spec codepoint.Spec) []codepoint.Range {
	runs := make([]codepoint.Range, 0, len(spec.LoneCodePoints)+len(spec.Ranges))
	for _, cp := range spec.LoneCodePoints {
		runs = append(runs, codepoint.Range{Low: cp, High: cp})
	}
	runs = append(runs, spec.Ranges...)
	slices.SortFunc(runs, func(a, b codepoint.Range) int {
		return int(a.Low - b.Low)
	})

	merged := runs[:0]
	for _, r := range runs {
		if n := len(merged); n > 0 && r.Low <= merged[n-1].High+1 {
			merged[n-1].High = max(merged[n-1].High, r.High)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Complement lists every scalar value not declared by spec. The surrogate
// block is left out, so gaps around it are split in two.
func Complement(spec codepoint.Spec) codepoint.Spec {
	excluded := normalize(codepoint.Spec{
		LoneCodePoints: spec.LoneCodePoints,
		Ranges: append(slices.Clone(spec.Ranges), codepoint.Range{
			Low:  consts.SurrogateLow,
			High: consts.SurrogateHigh,
		}),
	})

	var gaps []codepoint.Range
	next := rune(0)
	for _, r := range excluded {
		if r.Low > next {
			gaps = append(gaps, codepoint.Range{Low: next, High: r.Low - 1})
		}
		next = max(next, r.High+1)
	}
	if next <= consts.MaxCodePoint {
		gaps = append(gaps, codepoint.Range{Low: next, High: consts.MaxCodePoint})
	}
	return fromRuns(gaps)
}

// ScriptCase derives the Script=name case from the Go Unicode tables.
func ScriptCase(name string) (PropertyCase, error) {
	s, err := LookupScript(name)
	if err != nil {
		return PropertyCase{}, err
	}
	rt, ok := unicode.Scripts[s.Long]
	if !ok {
		return PropertyCase{}, fmt.Errorf("%w: no table for %q in unicode %s", consts.ErrUnknownScript, s.Long, unicode.Version)
	}
	aliases, err := Aliases(PropScript, s.Long)
	if err != nil {
		return PropertyCase{}, err
	}

	match := FromTable(rt)
	return PropertyCase{
		Property: PropScript + "=" + s.Long,
		Aliases:  aliases,
		Match:    match,
		NonMatch: Complement(match),
	}, nil
}

// AllScriptCases derives a case for every script present in both the alias
// table and the Go Unicode tables, ordered by long name.
func AllScriptCases() []PropertyCase {
	out := make([]PropertyCase, 0, len(scripts))
	for _, s := range scripts {
		if _, ok := unicode.Scripts[s.Long]; !ok {
			continue
		}
		c, err := ScriptCase(s.Long)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
