// Package decode holds the decode limits and error kinds shared by the
// TRK, TCK, and TRX decoders.
//
// Every fatal decode failure wraps exactly one of the sentinel errors
// below, so callers can branch on the failure kind with errors.Is
// without inspecting message text:
//
//	_, err := trk.Decode(data, decode.DefaultLimits())
//	if errors.Is(err, decode.ErrSizeExceeded) {
//	    // ask the user for a smaller file
//	}
//
// Non-fatal conditions (a TRK or TCK body that ends mid-record) do not
// produce errors at all: the decoders return the streamlines parsed so
// far, which is the documented truncation-tolerant behavior.
package decode

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every fatal decode failure.
var (
	// ErrSizeExceeded indicates the input buffer is larger than the
	// configured maximum. Checked before any parsing.
	ErrSizeExceeded = errors.New("file size exceeds limit")

	// ErrMissingMagic indicates the buffer carries none of the format
	// identifiers (TRK "TRACK" prefix, TCK "mrtrix tracks" line, TRX
	// ZIP signature).
	ErrMissingMagic = errors.New("format magic not found")

	// ErrHeaderMalformed indicates a structurally required header field
	// is out of its legal range.
	ErrHeaderMalformed = errors.New("malformed header")

	// ErrMissingMember indicates a TRX archive lacks a required member
	// (header.json, positions.*, or offsets.*).
	ErrMissingMember = errors.New("required archive member missing")

	// ErrUnsupportedEncoding indicates an element datatype or archive
	// encoding outside the supported set.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrRunawayStreamline indicates a single streamline exceeded the
	// per-streamline point cap. Fatal for TCK; the TRK decoder instead
	// stops silently, by design.
	ErrRunawayStreamline = errors.New("streamline exceeds point limit")

	// ErrTruncated indicates the buffer ended inside a structure that
	// must be complete (a TRX archive member or its data region). TRK
	// and TCK bodies tolerate truncation and never return this.
	ErrTruncated = errors.New("truncated file")
)

// Default caps. MaxFileSize bounds the whole input buffer;
// MaxStreamlinePoints bounds a single streamline's point count and is
// the corruption heuristic for TRK record headers.
const (
	DefaultMaxFileSize         = 2 << 30 // 2 GiB
	DefaultMaxStreamlinePoints = 100000
)

// Limits carries the numeric safety caps threaded into every decode
// call. Zero values are replaced by the defaults, so Limits{} behaves
// like DefaultLimits().
type Limits struct {
	// MaxFileSize is the largest accepted input buffer in bytes.
	MaxFileSize int64

	// MaxStreamlinePoints is the largest accepted point count for a
	// single streamline.
	MaxStreamlinePoints int
}

// DefaultLimits returns the standard caps.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:         DefaultMaxFileSize,
		MaxStreamlinePoints: DefaultMaxStreamlinePoints,
	}
}

// withDefaults fills zero fields with the default caps.
func (l Limits) withDefaults() Limits {
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	if l.MaxStreamlinePoints <= 0 {
		l.MaxStreamlinePoints = DefaultMaxStreamlinePoints
	}
	return l
}

// FileSizeLimit returns the effective buffer cap.
func (l Limits) FileSizeLimit() int64 {
	return l.withDefaults().MaxFileSize
}

// PointLimit returns the effective per-streamline point cap.
func (l Limits) PointLimit() int {
	return l.withDefaults().MaxStreamlinePoints
}

// CheckSize rejects buffers over the configured maximum. Decoders call
// this before reading a single byte, so an oversized buffer fails with
// ErrSizeExceeded even when its content is otherwise invalid.
func CheckSize(size int64, limits Limits) error {
	max := limits.FileSizeLimit()
	if size > max {
		return fmt.Errorf("buffer is %d bytes, limit is %d: %w", size, max, ErrSizeExceeded)
	}
	return nil
}
