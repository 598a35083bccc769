package fibra

import (
	"fmt"
	"os"

	"github.com/tsawler/fibra/decode"
	"github.com/tsawler/fibra/format"
	"github.com/tsawler/fibra/model"
	"github.com/tsawler/fibra/sampling"
	"github.com/tsawler/fibra/tck"
	"github.com/tsawler/fibra/trk"
	"github.com/tsawler/fibra/trx"
)

// Loader provides a fluent interface for decoding tractography files.
// Each configuration method returns a new Loader instance, making it
// safe to configure branches off a shared base and to reuse a Loader
// across goroutines.
type Loader struct {
	// Source: either a filename to read or bytes supplied directly.
	filename string
	data     []byte
	haveData bool

	// Configuration
	options Options

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Loader. Options is a value type, so a
// plain copy keeps configuration chains independent.
func (l *Loader) clone() *Loader {
	copied := *l
	return &copied
}

// ============================================================================
// Configuration Methods (return new Loader instance)
// ============================================================================

// Format forces the input to be decoded as the given format, skipping
// content and extension detection.
//
// Example:
//
//	tract, _, err := fibra.Open("export.dat").Format(format.TCK).Tractogram()
func (l *Loader) Format(f format.Format) *Loader {
	next := l.clone()
	next.options.Format = f
	return next
}

// MaxFileSize caps the accepted input size in bytes. Larger inputs
// fail with decode.ErrSizeExceeded before any parsing.
func (l *Loader) MaxFileSize(n int64) *Loader {
	next := l.clone()
	next.options.MaxFileSize = n
	return next
}

// MaxStreamlinePoints caps a single streamline's point count. For TRK
// it doubles as the corruption heuristic on record headers; for TCK
// exceeding it is a fatal decode error.
func (l *Loader) MaxStreamlinePoints(n int) *Loader {
	next := l.clone()
	next.options.MaxStreamlinePoints = n
	return next
}

// SampleLimit sets the most streamlines Sampled will return.
func (l *Loader) SampleLimit(n int) *Loader {
	next := l.clone()
	next.options.SampleLimit = n
	return next
}

// SampleThreshold sets the streamline count above which Sampled
// switches from pass-through to stride selection.
func (l *Loader) SampleThreshold(n int) *Loader {
	next := l.clone()
	next.options.SampleThreshold = n
	return next
}

// WithOptions replaces the Loader's entire configuration, typically
// with options loaded from a YAML file. Zero fields fall back to
// their defaults.
//
// Example:
//
//	opts, err := fibra.LoadOptions("fibra.yaml")
//	if err != nil {
//	    // handle error
//	}
//	tract, _, err := fibra.Open("bundle.trx").WithOptions(opts).Tractogram()
func (l *Loader) WithOptions(opts Options) *Loader {
	next := l.clone()
	next.options = opts.withDefaults()
	return next
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Tractogram decodes the input completely. It returns the decoded
// tractogram, any non-fatal warnings (declared-count mismatches,
// skipped archive members, empty results), and an error if decoding
// failed outright.
//
// Example:
//
//	tract, warnings, err := fibra.Open("whole_brain.trk").Tractogram()
func (l *Loader) Tractogram() (*model.Tractogram, []Warning, error) {
	data, f, err := l.load()
	if err != nil {
		return nil, nil, err
	}
	tract, err := decodeAs(data, f, l.options.limits())
	if err != nil {
		return nil, nil, err
	}
	return tract, collectWarnings(tract), nil
}

// Header decodes only the input's header, skipping streamline data
// where the format allows it. StreamlineCount reflects the declared
// count, not a decoded one.
func (l *Loader) Header() (*model.Header, error) {
	data, f, err := l.load()
	if err != nil {
		return nil, err
	}
	limits := l.options.limits()
	switch f {
	case format.TCK:
		return tck.DecodeHeader(data, limits)
	case format.TRX:
		return trx.DecodeHeader(data, limits)
	default:
		return trk.DecodeHeader(data, limits)
	}
}

// Sampled decodes the input and returns a display-sized subset chosen
// by deterministic stride sampling, governed by SampleLimit and
// SampleThreshold.
//
// Example:
//
//	result, _, err := fibra.Open("whole_brain.trk").SampleLimit(1000).Sampled()
//	// result.Streamlines holds at most 1000, spread across the file
func (l *Loader) Sampled() (*sampling.Result, []Warning, error) {
	tract, warnings, err := l.Tractogram()
	if err != nil {
		return nil, nil, err
	}
	opts := l.options.withDefaults()
	result := sampling.Stride(tract.Streamlines, opts.SampleLimit, opts.SampleThreshold)
	return &result, warnings, nil
}

// Bounds decodes the input and returns the axis-aligned bounding box
// over every point of every streamline. An empty tractogram yields
// the zero box.
func (l *Loader) Bounds() (model.BoundingBox, []Warning, error) {
	tract, warnings, err := l.Tractogram()
	if err != nil {
		return model.BoundingBox{}, nil, err
	}
	return model.ComputeBounds(tract.Streamlines), warnings, nil
}

// ============================================================================
// Internals
// ============================================================================

// load materializes the input bytes and resolves which decoder to
// route them to.
func (l *Loader) load() ([]byte, format.Format, error) {
	if l.err != nil {
		return nil, format.Unknown, l.err
	}

	data := l.data
	if !l.haveData {
		if l.filename == "" {
			return nil, format.Unknown, fmt.Errorf("no input specified")
		}
		// Stat first so an oversized file is rejected without
		// reading it into memory.
		info, err := os.Stat(l.filename)
		if err != nil {
			return nil, format.Unknown, fmt.Errorf("failed to stat input: %w", err)
		}
		if err := decode.CheckSize(info.Size(), l.options.limits()); err != nil {
			return nil, format.Unknown, err
		}
		data, err = os.ReadFile(l.filename)
		if err != nil {
			return nil, format.Unknown, fmt.Errorf("failed to read input: %w", err)
		}
	}

	return data, l.route(data), nil
}

// route picks the decoder: an explicit hint wins, then the content
// magic, then the filename extension, and finally TRK as the
// historical default for headerless-looking input.
func (l *Loader) route(data []byte) format.Format {
	if l.options.Format != format.Unknown {
		return l.options.Format
	}
	if f := format.DetectFromMagic(data); f != format.Unknown {
		return f
	}
	if l.filename != "" {
		if f := format.Detect(l.filename); f != format.Unknown {
			return f
		}
	}
	return format.TRK
}

// decodeAs dispatches to the format's decoder.
func decodeAs(data []byte, f format.Format, limits decode.Limits) (*model.Tractogram, error) {
	switch f {
	case format.TCK:
		return tck.Decode(data, limits)
	case format.TRX:
		return trx.Decode(data, limits)
	default:
		return trk.Decode(data, limits)
	}
}
