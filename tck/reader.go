// Package tck decodes MRtrix TCK tractography files.
//
// A TCK file is a free-form text header terminated by an END line,
// followed by binary coordinate triplets. The triplet stream uses
// IEEE-754 sentinels for structure: a NaN triplet separates
// consecutive streamlines and an infinity in the first component ends
// the data. Streamlines shorter than two points are discarded, and a
// buffer that ends without the infinity sentinel still yields
// whatever was accumulated.
package tck

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tsawler/fibra/decode"
	"github.com/tsawler/fibra/format"
	"github.com/tsawler/fibra/model"
)

// Decode parses a complete TCK file held in data.
func Decode(data []byte, limits decode.Limits) (*model.Tractogram, error) {
	if err := decode.CheckSize(int64(len(data)), limits); err != nil {
		return nil, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	tract := model.NewTractogram(format.TCK)
	tract.Header = unifiedHeader(h)

	read, width := componentReader(h.Datatype)
	var (
		stride    = 3 * width
		pos       = h.DataOffset
		maxFloats = 3 * limits.PointLimit()
		current   []float32
	)
	finalize := func() {
		if len(current) >= 6 {
			tract.AddStreamline(model.Streamline{Points: current})
		}
		current = nil
	}

	for pos >= 0 && pos+stride <= len(data) {
		x := read(data[pos:])
		y := read(data[pos+width:])
		z := read(data[pos+2*width:])
		pos += stride

		// The first component decides: infinity ends the data, any
		// NaN in the triplet separates streamlines.
		if math.IsInf(x, 0) {
			finalize()
			return tract, nil
		}
		if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) {
			finalize()
			continue
		}

		current = append(current, float32(x), float32(y), float32(z))
		if len(current) > maxFloats {
			return nil, fmt.Errorf("streamline exceeds %d points without a separator: %w",
				limits.PointLimit(), decode.ErrRunawayStreamline)
		}
	}

	// Graceful end of buffer without the infinity sentinel.
	finalize()
	return tract, nil
}

// DecodeHeader parses and validates only the text header.
func DecodeHeader(data []byte, limits decode.Limits) (*model.Header, error) {
	if err := decode.CheckSize(int64(len(data)), limits); err != nil {
		return nil, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	mh := unifiedHeader(h)
	return &mh, nil
}

// recognizedFields are header keys with typed handling; everything
// else passes into the unified metadata verbatim.
var recognizedFields = map[string]bool{
	"datatype":    true,
	"file":        true,
	"count":       true,
	"total_count": true,
	"timestamp":   true,
}

// unifiedHeader maps the parsed TCK header onto the
// format-independent model header. TCK carries no volume geometry, so
// dimensions stay zero and the voxel size keeps its 1mm default.
func unifiedHeader(h *Header) model.Header {
	mh := model.Header{
		Format:    format.TCK,
		VoxelSize: [3]float32{1, 1, 1},
		Metadata: map[string]any{
			model.MetaDatatype:      h.Datatype,
			model.MetaDeclaredCount: h.Count,
		},
	}
	if h.TotalCount > 0 {
		mh.Metadata["total_count"] = h.TotalCount
	}
	if h.Timestamp != 0 {
		mh.Metadata["timestamp"] = h.Timestamp
	}
	for key, value := range h.Fields {
		if !recognizedFields[key] {
			mh.Metadata[key] = value
		}
	}
	return mh
}

// componentReader returns a reader for one coordinate component of
// the given datatype plus the component's byte width. ParseHeader has
// already rejected anything outside the four supported encodings.
func componentReader(datatype string) (func([]byte) float64, int) {
	switch datatype {
	case DatatypeFloat32BE:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
		}, 4
	case DatatypeFloat64LE:
		return func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}, 8
	case DatatypeFloat64BE:
		return func(b []byte) float64 {
			return math.Float64frombits(binary.BigEndian.Uint64(b))
		}, 8
	default:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, 4
	}
}
