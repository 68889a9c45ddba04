package stopwatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	stageLabel = "stage"
	// separator joins the names of nested stages.
	separator = ">"
)

type Stage interface {
	Stop()
}

// Stopwatch measures the stages of a single piece of work, a stage started
// while another one runs is nested into it. Repeated stages accumulate.
// Not safe for concurrent use.
type Stopwatch struct {
	root    *stage
	current *stage

	nowFn   func() time.Time
	sinceFn func(time.Time) time.Duration
}

type stage struct {
	sw       *Stopwatch
	parent   *stage
	name     string
	started  time.Time
	total    time.Duration
	count    uint32
	children map[string]*stage
}

func New() *Stopwatch {
	sw := &Stopwatch{
		nowFn:   time.Now,
		sinceFn: time.Since,
	}
	sw.Reset()
	return sw
}

func newStage(sw *Stopwatch, parent *stage, name string) *stage {
	return &stage{sw: sw, parent: parent, name: name, children: map[string]*stage{}}
}

func (s *Stopwatch) Reset() {
	s.root = newStage(s, nil, "")
	s.current = s.root
}

func (s *Stopwatch) Start(name string) Stage {
	child, ok := s.current.children[name]
	if !ok {
		full := name
		if s.current != s.root {
			full = s.current.name + separator + name
		}
		child = newStage(s, s.current, full)
		s.current.children[name] = child
	}
	child.started = s.nowFn()
	s.current = child
	return child
}

// Stop ends the stage and makes its parent current again. Stopping a stage
// twice counts it twice.
func (m *stage) Stop() {
	m.total += m.sw.sinceFn(m.started)
	m.count++
	if m.sw.current == m {
		m.sw.current = m.parent
	}
}

func (m *stage) walk(fn func(*stage)) {
	for _, c := range m.children {
		fn(c)
		c.walk(fn)
	}
}

// GetValues returns the accumulated time of every stopped stage by its full name.
func (s *Stopwatch) GetValues() map[string]time.Duration {
	res := map[string]time.Duration{}
	s.root.walk(func(m *stage) {
		if m.count > 0 {
			res[m.name] = m.total
		}
	})
	return res
}

func (s *Stopwatch) GetCounts() map[string]uint32 {
	res := map[string]uint32{}
	s.root.walk(func(m *stage) {
		if m.count > 0 {
			res[m.name] = m.count
		}
	})
	return res
}

type ExportOption func(prometheus.Labels) prometheus.Labels

func SetLabel(name, value string) ExportOption {
	return func(labels prometheus.Labels) prometheus.Labels {
		labels[name] = value
		return labels
	}
}

// Export observes every stage into m under the "stage" label and resets the stopwatch.
func (s *Stopwatch) Export(m *prometheus.HistogramVec, options ...ExportOption) {
	labels := prometheus.Labels{}
	for _, o := range options {
		labels = o(labels)
	}

	for name, val := range s.GetValues() {
		labels[stageLabel] = name
		m.With(labels).Observe(val.Seconds())
	}
	s.Reset()
}
