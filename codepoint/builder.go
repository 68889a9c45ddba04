package codepoint

import (
	"fmt"
	"unicode/utf8"

	"github.com/c2h5oh/datasize"

	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/consts"
)

type options struct {
	dense       bool
	denseLimit  int
	edgeSamples int
	stride      int
	maxSize     datasize.ByteSize
}

type Option func(*options)

// WithDense emits every value of every range regardless of its width.
func WithDense() Option {
	return func(o *options) {
		o.dense = true
	}
}

// clampKnob bounds a sampling knob to [1, size of the code point space].
func clampKnob(v int) int {
	return min(max(v, 1), consts.MaxCodePoint+1)
}

// WithSampling overrides the conf sampling knobs. Non-positive values keep
// the defaults, larger than the code point space ones are clamped to it.
func WithSampling(denseLimit, edgeSamples, stride int) Option {
	return func(o *options) {
		if denseLimit > 0 {
			o.denseLimit = clampKnob(denseLimit)
		}
		if edgeSamples > 0 {
			o.edgeSamples = clampKnob(edgeSamples)
		}
		if stride > 0 {
			o.stride = clampKnob(stride)
		}
	}
}

func WithMaxSize(size datasize.ByteSize) Option {
	return func(o *options) {
		o.maxSize = size
	}
}

func defaultOptions() options {
	return options{
		denseLimit:  conf.DenseLimit,
		edgeSamples: conf.EdgeSamples,
		stride:      conf.SampleStride,
		maxSize:     conf.MaxTestStringSize,
	}
}

// seenSet is a bitmap over the whole code point space, 136KiB.
type seenSet []uint64

func newSeenSet() seenSet {
	return make(seenSet, (consts.MaxCodePoint+1+63)/64)
}

func (s seenSet) add(cp rune) bool {
	w, bit := cp>>6, uint64(1)<<(cp&63)
	if s[w]&bit != 0 {
		return false
	}
	s[w] |= bit
	return true
}

type builder struct {
	opts options
	seen seenSet
	out  TestString
}

func (b *builder) emit(cp rune) error {
	if !b.seen.add(cp) {
		return nil
	}
	b.out.size += utf8.RuneLen(cp)
	if b.opts.maxSize > 0 && uint64(b.out.size) > b.opts.maxSize.Bytes() {
		return fmt.Errorf("%d bytes over %s: %w", b.out.size, b.opts.maxSize.HR(), consts.ErrTooLarge)
	}
	b.out.runes = append(b.out.runes, cp)
	return nil
}

func (b *builder) emitSpan(lo, hi rune) error {
	for cp := lo; cp <= hi; cp++ {
		if err := b.emit(cp); err != nil {
			return err
		}
	}
	return nil
}

// emitRange always emits both bounds. Narrow ranges are emitted in full,
// wide ones as head and tail runs of edgeSamples values plus every stride-th
// value in between, counted from Low.
func (b *builder) emitRange(r Range) error {
	if b.opts.dense || r.Len() <= b.opts.denseLimit {
		return b.emitSpan(r.Low, r.High)
	}

	edge := rune(min(clampKnob(b.opts.edgeSamples), r.Len()))
	headEnd := min(r.Low+edge-1, r.High)
	tailStart := max(r.High-edge+1, r.Low)

	if err := b.emitSpan(r.Low, headEnd); err != nil {
		return err
	}
	stride := rune(clampKnob(b.opts.stride))
	for cp := r.Low + stride; cp < tailStart; cp += stride {
		if cp <= headEnd {
			continue
		}
		if err := b.emit(cp); err != nil {
			return err
		}
	}
	return b.emitSpan(tailStart, r.High)
}

// Build turns a spec into a TestString: lone code points first, in declared
// order, then every range in declared order. A value is emitted once, at its
// first occurrence. The spec is validated before anything is emitted.
func Build(spec Spec, opts ...Option) (*TestString, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	b := builder{
		opts: defaultOptions(),
		seen: newSeenSet(),
	}
	for _, o := range opts {
		o(&b.opts)
	}

	b.out.runes = make([]rune, 0, min(spec.Count(), 1<<16))
	for _, cp := range spec.LoneCodePoints {
		if err := b.emit(cp); err != nil {
			return nil, err
		}
	}
	for _, r := range spec.Ranges {
		if err := b.emitRange(r); err != nil {
			return nil, err
		}
	}
	return &b.out, nil
}

// MustBuild is Build for statically declared specs.
func MustBuild(spec Spec, opts ...Option) *TestString {
	s, err := Build(spec, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
