package consts

import "errors"

const (
	KB = 1 << 10
	MB = 1 << 20

	// MaxCodePoint is the last Unicode scalar value.
	MaxCodePoint = 0x10FFFF

	SurrogateLow  = 0xD800
	SurrogateHigh = 0xDFFF

	// SupplementaryStart is the first code point that needs a surrogate pair in UTF-16.
	SupplementaryStart = 0x10000
)

var (
	ErrEmptySpec        = errors.New("code point spec declares no code points")
	ErrSurrogate        = errors.New("surrogate code point")
	ErrOutOfRange       = errors.New("code point out of range")
	ErrInvertedRange    = errors.New("range low bound is greater than high bound")
	ErrTooLarge         = errors.New("test string exceeds size limit")
	ErrUnknownScript    = errors.New("unknown script")
	ErrUnknownProp      = errors.New("unknown property")
	ErrUnsupported      = errors.New("property not supported by engine")
	ErrBadExpression    = errors.New("malformed property expression")
	ErrUnknownEngine    = errors.New("unknown engine")
	ErrEmptySuite       = errors.New("suite has no cases")
	ErrInvalidSuite     = errors.New("invalid suite")
	ErrInvalidAssertion = errors.New("invalid assertion")
	ErrBadCodePoint     = errors.New("malformed code point")
)
