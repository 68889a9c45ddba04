package runner

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/consts"
	"github.com/ozontech/propescape/engine"
	"github.com/ozontech/propescape/logger"
	"github.com/ozontech/propescape/metric"
	"github.com/ozontech/propescape/report"
	"github.com/ozontech/propescape/suite"
	"github.com/ozontech/propescape/ucd"
)

func scriptSuite(t *testing.T, names ...string) *suite.Suite {
	cases := make([]ucd.PropertyCase, 0, len(names))
	for _, name := range names {
		c, err := ucd.ScriptCase(name)
		require.NoError(t, err)
		cases = append(cases, c)
	}
	return suite.FromUCD(cases)
}

// latinAsTaiTham claims that a-z are Tai Tham, every check on them fails.
var latinAsTaiTham = suite.Case{
	Property: "Script=Tai_Tham",
	Aliases:  []string{"sc=Lana"},
	Match:    suite.CodePoints{Ranges: []suite.Range{{Low: 'a', High: 'z'}}},
	NonMatch: suite.CodePoints{LoneCodePoints: []suite.CodePoint{0x1A5F}},
}

func TestRunGroundTruthPasses(t *testing.T) {
	s := scriptSuite(t, "Tai_Tham", "Greek", "Cham", "Deseret")
	for _, eng := range []engine.Engine{engine.NewStdlib(), engine.NewRegexp2(0)} {
		t.Run(eng.Name(), func(t *testing.T) {
			sum, err := Run(context.Background(), eng, s, Options{Workers: 3})
			require.NoError(t, err)

			assert.True(t, sum.OK())
			assert.Equal(t, 4, sum.Cases)
			assert.Equal(t, 4, sum.Passed)
			assert.Zero(t, sum.Violations)
			assert.Positive(t, sum.Checks)
			_, err = ulid.ParseStrict(sum.RunID)
			assert.NoError(t, err)
		})
	}
}

func TestRunCountsFailures(t *testing.T) {
	s := scriptSuite(t, "Tai_Tham")
	s.Cases = append(s.Cases, latinAsTaiTham)
	collector := &report.Collector{}

	failedBefore := testutil.ToFloat64(metric.CasesTotal.WithLabelValues("failed"))
	sum, err := Run(context.Background(), engine.NewStdlib(), s, Options{Workers: 2, Reporter: collector})
	require.NoError(t, err)

	assert.False(t, sum.OK())
	assert.Equal(t, 2, sum.Cases)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 26*2, sum.Violations)
	assert.NoError(t, sum.Err)
	assert.Len(t, collector.Failed(), 26*2)
	assert.Len(t, collector.Records(), sum.Checks)
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(metric.CasesTotal.WithLabelValues("failed")))
}

func TestRunCaseErrors(t *testing.T) {
	s := &suite.Suite{Cases: []suite.Case{
		{
			Property: "broken",
			Aliases:  []string{"sc=Lana"},
			Match:    suite.CodePoints{LoneCodePoints: []suite.CodePoint{0xD800}},
			NonMatch: suite.CodePoints{LoneCodePoints: []suite.CodePoint{'a'}},
		},
		{
			Property: "no aliases",
			Match:    suite.CodePoints{LoneCodePoints: []suite.CodePoint{'a'}},
			NonMatch: suite.CodePoints{LoneCodePoints: []suite.CodePoint{'b'}},
		},
	}}

	sum, err := Run(context.Background(), engine.NewStdlib(), s, Options{Workers: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Failed)
	assert.ErrorIs(t, sum.Err, consts.ErrSurrogate)
	assert.ErrorIs(t, sum.Err, consts.ErrInvalidAssertion)
	assert.Contains(t, sum.Err.Error(), "case 0 (broken): match:")
}

func TestRunHonorsBuildOptions(t *testing.T) {
	s := &suite.Suite{Cases: []suite.Case{{
		Property: "Script=Latin",
		Aliases:  []string{"sc=Latn"},
		Match:    suite.CodePoints{LoneCodePoints: []suite.CodePoint{'a'}},
		NonMatch: suite.CodePoints{Ranges: []suite.Range{{Low: 0x4E00, High: 0x9FFF}}},
	}}}
	const hanChars = 0x9FFF - 0x4E00 + 1

	sampled, err := Run(context.Background(), engine.NewStdlib(), s, Options{Workers: 1})
	require.NoError(t, err)
	assert.Less(t, sampled.Checks, 2+2*hanChars)

	dense, err := Run(context.Background(), engine.NewStdlib(), s, Options{
		Workers: 1,
		Build:   []codepoint.Option{codepoint.WithDense()},
	})
	require.NoError(t, err)
	assert.True(t, dense.OK())
	assert.Equal(t, 2+2*hanChars, dense.Checks)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, engine.NewStdlib(), scriptSuite(t, "Greek", "Cham"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Cases)
}

func TestRunLimitsLoggedViolations(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer logger.Replace(zap.New(core))()

	s := &suite.Suite{Cases: []suite.Case{latinAsTaiTham}}
	_, err := Run(context.Background(), engine.NewStdlib(), s, Options{Workers: 1})
	require.NoError(t, err)

	assert.Equal(t, conf.MaxViolationsLogged, logs.FilterMessage("violation").Len())
	omitted := logs.FilterMessage("more violations omitted").All()
	require.Len(t, omitted, 1)
	assert.Equal(t, int64(26*2-conf.MaxViolationsLogged), omitted[0].ContextMap()["omitted"])
}

func stageSamples(t *testing.T, stage string) (uint64, float64) {
	m := &dto.Metric{}
	require.NoError(t, metric.StageDurationSeconds.WithLabelValues(stage).(prometheus.Histogram).Write(m))
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func TestRunTimesFailedBuild(t *testing.T) {
	s := &suite.Suite{Cases: []suite.Case{{
		Property: "broken",
		Aliases:  []string{"sc=Lana"},
		Match:    suite.CodePoints{Ranges: []suite.Range{{Low: 0x10000, High: 0x1FFFF}}},
		NonMatch: suite.CodePoints{LoneCodePoints: []suite.CodePoint{0xD800}},
	}}}
	buildCount, buildSum := stageSamples(t, "build")
	validateCount, _ := stageSamples(t, "validate")

	sum, err := Run(context.Background(), engine.NewStdlib(), s, Options{Workers: 1})
	require.NoError(t, err)
	require.ErrorIs(t, sum.Err, consts.ErrSurrogate)

	count, total := stageSamples(t, "build")
	assert.Equal(t, buildCount+1, count)
	assert.Greater(t, total, buildSum)
	count, _ = stageSamples(t, "validate")
	assert.Equal(t, validateCount, count)
}
