package report

import (
	"io"
	"sync"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// Record is the outcome of one checked unit. Label names the property
// expression, the polarity and the code point.
type Record struct {
	Passed bool
	Label  string
}

func (v Record) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"passed":`)
	w.Bool(v.Passed)
	w.RawString(`,"label":`)
	w.String(v.Label)
	w.RawByte('}')
}

func (v Record) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	v.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

var _ easyjson.Marshaler = Record{}

type Reporter interface {
	Report(Record)
}

type ReporterFunc func(Record)

func (f ReporterFunc) Report(r Record) {
	f(r)
}

// Discard drops every record.
var Discard Reporter = ReporterFunc(func(Record) {})

// Collector keeps records in memory. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

func (c *Collector) Report(r Record) {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
}

func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...)
}

func (c *Collector) Failed() []Record {
	var out []Record
	for _, r := range c.Records() {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// JSONLines writes one JSON object per record. With onlyFailed set passing
// records are skipped. It is safe for concurrent use.
type JSONLines struct {
	mu         sync.Mutex
	out        io.Writer
	onlyFailed bool
	err        error
}

func NewJSONLines(out io.Writer, onlyFailed bool) *JSONLines {
	return &JSONLines{out: out, onlyFailed: onlyFailed}
}

func (j *JSONLines) Report(r Record) {
	if j.onlyFailed && r.Passed {
		return
	}
	w := jwriter.Writer{}
	r.MarshalEasyJSON(&w)
	w.RawByte('\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}
	if w.Error != nil {
		j.err = w.Error
		return
	}
	_, j.err = w.DumpTo(j.out)
}

// Err returns the first write error.
func (j *JSONLines) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
