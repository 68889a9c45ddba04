package suite

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/consts"
	"github.com/ozontech/propescape/logger"
)

const zstdExt = ".zst"

type options struct {
	maxSize datasize.ByteSize
}

type Option func(*options)

// WithMaxSize limits the decompressed size of a suite.
func WithMaxSize(size datasize.ByteSize) Option {
	return func(o *options) {
		o.maxSize = size
	}
}

// Decode reads a YAML suite. Unknown fields are an error.
func Decode(r io.Reader, opts ...Option) (*Suite, error) {
	o := options{maxSize: conf.MaxSuiteSize}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(o.maxSize.Bytes())+1))
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	if uint64(len(data)) > o.maxSize.Bytes() {
		return nil, fmt.Errorf("suite larger than %s: %w", o.maxSize.HR(), consts.ErrTooLarge)
	}

	s := &Suite{}
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("%w: %w", consts.ErrInvalidSuite, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func Encode(w io.Writer, s *Suite) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Load reads a suite file, a .zst suffix selects zstd decompression.
func Load(path string, opts ...Option) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstdExt) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	s, err := Decode(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Info("suite loaded",
		zap.String("path", path),
		zap.String("unicode_version", s.UnicodeVersion),
		zap.Int("cases", len(s.Cases)),
	)
	return s, nil
}

// Save writes a suite file, a .zst suffix selects zstd compression.
func Save(path string, s *Suite) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, zstdExt) {
		return Encode(f, s)
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if err := Encode(zw, s); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
