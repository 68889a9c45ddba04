package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"lukechampine.com/frand"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/engine"
	"github.com/ozontech/propescape/logger"
	"github.com/ozontech/propescape/metric"
	"github.com/ozontech/propescape/metric/stopwatch"
	"github.com/ozontech/propescape/report"
	"github.com/ozontech/propescape/suite"
	"github.com/ozontech/propescape/validator"
)

type Options struct {
	// Workers defaults to conf.Workers.
	Workers int
	// Build is passed to codepoint.Build for both test strings of every case.
	Build    []codepoint.Option
	Reporter report.Reporter
}

type Summary struct {
	RunID      string
	Cases      int
	Passed     int
	Failed     int
	Checks     int
	Violations int
	// Err combines the errors of cases that could not be checked at all.
	Err error
}

func (s Summary) OK() bool {
	return s.Failed == 0 && s.Err == nil
}

type counters struct {
	passed     atomic.Int64
	failed     atomic.Int64
	checks     atomic.Int64
	violations atomic.Int64

	mu   sync.Mutex
	errs error
}

func (c *counters) addErr(err error) {
	c.mu.Lock()
	c.errs = multierr.Append(c.errs, err)
	c.mu.Unlock()
}

type task struct {
	index int
	c     *suite.Case
}

type worker struct {
	runID     string
	validator *validator.Validator
	build     []codepoint.Option
	counters  *counters
}

func NewRunID() string {
	return ulid.MustNew(ulid.Now(), frand.New()).String()
}

// Run checks every case of s against eng and waits for all workers to
// finish. Cases not started before ctx is done are skipped and ctx.Err() is
// returned along with the partial summary.
func Run(ctx context.Context, eng engine.Engine, s *suite.Suite, opts Options) (Summary, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = conf.Workers
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.Discard
	}

	runID := NewRunID()
	start := time.Now()
	logger.Info("run started",
		zap.String("run_id", runID),
		zap.String("engine", eng.Name()),
		zap.Int("cases", len(s.Cases)),
		zap.Int("workers", workers),
	)

	cnt := &counters{}
	w := &worker{
		runID:     runID,
		validator: validator.New(eng, validator.WithReporter(reporter)),
		build:     opts.Build,
		counters:  cnt,
	}

	tasks := make(chan task)
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				w.process(t)
			}
		}()
	}

	var err error
dispatch:
	for i := range s.Cases {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case tasks <- task{index: i, c: &s.Cases[i]}:
		}
	}
	close(tasks)
	wg.Wait()

	sum := Summary{
		RunID:      runID,
		Cases:      int(cnt.passed.Load() + cnt.failed.Load()),
		Passed:     int(cnt.passed.Load()),
		Failed:     int(cnt.failed.Load()),
		Checks:     int(cnt.checks.Load()),
		Violations: int(cnt.violations.Load()),
		Err:        cnt.errs,
	}
	logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("passed", sum.Passed),
		zap.Int("failed", sum.Failed),
		zap.Int("checks", sum.Checks),
		zap.Int("violations", sum.Violations),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return sum, err
}

func (w *worker) buildString(spec codepoint.Spec) (*codepoint.TestString, error) {
	s, err := codepoint.Build(spec, w.build...)
	if err != nil {
		return nil, err
	}
	metric.TestStringChars.Observe(float64(s.Len()))
	return s, nil
}

func (w *worker) fail(t task, err error) {
	err = fmt.Errorf("case %d (%s): %w", t.index, t.c.Property, err)
	w.counters.failed.Inc()
	w.counters.addErr(err)
	metric.CasesTotal.WithLabelValues("error").Inc()
	logger.Error("case not checked", zap.String("run_id", w.runID), zap.Error(err))
}

func (w *worker) process(t task) {
	sw := stopwatch.New()
	defer sw.Export(metric.StageDurationSeconds)

	build := sw.Start("build")
	m := sw.Start("match")
	match, err := w.buildString(t.c.Match.Spec())
	m.Stop()
	if err != nil {
		build.Stop()
		w.fail(t, fmt.Errorf("match: %w", err))
		return
	}
	m = sw.Start("non_match")
	nonMatch, err := w.buildString(t.c.NonMatch.Spec())
	m.Stop()
	if err != nil {
		build.Stop()
		w.fail(t, fmt.Errorf("non_match: %w", err))
		return
	}
	build.Stop()

	m = sw.Start("validate")
	res, err := w.validator.Validate(validator.Assertion{
		Property: t.c.Property,
		Aliases:  t.c.Aliases,
		Match:    match,
		NonMatch: nonMatch,
	})
	m.Stop()
	if err != nil {
		w.fail(t, err)
		return
	}

	w.counters.checks.Add(int64(res.Checks))
	w.counters.violations.Add(int64(len(res.Violations)))
	if res.Passed() {
		w.counters.passed.Inc()
		metric.CasesTotal.WithLabelValues("passed").Inc()
		return
	}

	w.counters.failed.Inc()
	metric.CasesTotal.WithLabelValues("failed").Inc()
	for i, v := range res.Violations {
		if i == conf.MaxViolationsLogged {
			logger.Warn("more violations omitted",
				zap.String("run_id", w.runID),
				zap.String("property", res.Property),
				zap.Int("omitted", len(res.Violations)-i),
			)
			break
		}
		logger.Warn("violation",
			zap.String("run_id", w.runID),
			zap.String("property", res.Property),
			zap.Stringer("kind", v.Kind),
			zap.String("detail", v.Error()),
		)
	}
}
