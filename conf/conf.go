package conf

import (
	"runtime"
	"time"

	"github.com/c2h5oh/datasize"
)

func init() {
	Workers = runtime.NumCPU()
}

var (
	Workers int

	// DenseLimit is the widest range that is always emitted in full.
	DenseLimit = 512
	// EdgeSamples is the number of values emitted next to each bound of a sampled range.
	EdgeSamples = 16
	// SampleStride is the distance between interior samples of a sampled range.
	SampleStride = 64

	MaxTestStringSize = 16 * datasize.MB
	MaxSuiteSize      = 256 * datasize.MB

	// MatchTimeout bounds a single regexp2 match, zero disables it.
	MatchTimeout time.Duration

	// MaxViolationsLogged limits how many violations of a single case reach the log.
	MaxViolationsLogged = 5
)

type Engine string

const (
	EngineStdlib  Engine = "stdlib"
	EngineRegexp2 Engine = "regexp2"
)
