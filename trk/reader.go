// Package trk decodes TrackVis TRK tractography files.
//
// A TRK file is a fixed 1000-byte little-endian header followed by
// length-prefixed streamline records: a 32-bit point count, then that
// many points (three coordinate floats plus any per-point scalar
// channels), then any per-track property floats. Decoding is
// truncation-tolerant: a record length outside the sane range or a
// record extending past the buffer ends the decode cleanly with every
// streamline parsed so far.
package trk

import (
	"encoding/binary"
	"math"

	"github.com/tsawler/fibra/decode"
	"github.com/tsawler/fibra/format"
	"github.com/tsawler/fibra/model"
)

// Decode parses a complete TRK file held in data. It fails only on a
// size-cap violation or an invalid header; body-level corruption and
// truncation return the streamlines decoded up to that point.
func Decode(data []byte, limits decode.Limits) (*model.Tractogram, error) {
	if err := decode.CheckSize(int64(len(data)), limits); err != nil {
		return nil, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	tract := model.NewTractogram(format.TRK)
	tract.Header = unifiedHeader(h)

	var (
		pos            = headerSize
		records        = 0
		declared       = int(h.StreamlineCount)
		maxPoints      = limits.PointLimit()
		scalarChannels = int(h.ScalarCount)
		properties     = int(h.PropertyCount)
		floatsPerPoint = 3 + scalarChannels
	)
	for pos+4 <= len(data) {
		if declared > 0 && records >= declared {
			break
		}
		n := int(readInt32(data, pos))
		pos += 4

		// A point count outside (0, maxPoints] means the record
		// stream is corrupt; keep what was decoded so far.
		if n <= 0 || n > maxPoints {
			break
		}
		recordBytes := (n*floatsPerPoint + properties) * 4
		if recordBytes < 0 || pos+recordBytes > len(data) {
			// Record extends past the buffer.
			break
		}

		records++
		if n >= 2 {
			tract.AddStreamline(parseRecord(data[pos:pos+recordBytes], n, scalarChannels, properties))
		}
		pos += recordBytes
	}

	return tract, nil
}

// DecodeHeader parses and validates only the fixed header, skipping
// the streamline records entirely.
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

// unifiedHeader maps the raw TRK header onto the format-independent
// model header.
func unifiedHeader(h *Header) model.Header {
	mh := model.Header{
		Format:    format.TRK,
		VoxelSize: [3]float32{1, 1, 1},
		Version:   int(h.Version),
		Metadata: map[string]any{
			model.MetaDeclaredCount: int(h.StreamlineCount),
			model.MetaVoxelToRAS:    h.VoxelToRAS,
		},
	}
	for i, d := range h.Dimensions {
		mh.Dimensions[i] = int(d)
	}
	// An all-zero voxel size means the producer never filled it in;
	// keep the 1mm default in that case.
	if h.VoxelSize != ([3]float32{}) {
		mh.VoxelSize = h.VoxelSize
	}
	if h.VoxelOrder != "" {
		mh.Metadata[model.MetaVoxelOrder] = h.VoxelOrder
	}
	if h.Origin != ([3]float32{}) {
		mh.Metadata["origin"] = h.Origin
	}
	if h.ImageOrientation != ([6]float32{}) {
		mh.Metadata["image_orientation"] = h.ImageOrientation
	}
	if len(h.ScalarNames) > 0 {
		mh.Metadata["scalar_names"] = h.ScalarNames
	}
	if len(h.PropertyNames) > 0 {
		mh.Metadata["property_names"] = h.PropertyNames
	}
	if h.InvertX || h.InvertY || h.InvertZ {
		mh.Metadata["invert"] = [3]bool{h.InvertX, h.InvertY, h.InvertZ}
	}
	if h.SwapXY || h.SwapYZ || h.SwapZX {
		mh.Metadata["swap"] = [3]bool{h.SwapXY, h.SwapYZ, h.SwapZX}
	}
	return mh
}

// parseRecord converts one complete streamline record into the model
// form. rec holds exactly the record's float payload; bounds were
// checked by the caller.
func parseRecord(rec []byte, points, scalarChannels, properties int) model.Streamline {
	sl := model.Streamline{Points: make([]float32, 0, points*3)}
	if scalarChannels > 0 {
		sl.Scalars = make([][]float32, scalarChannels)
		for c := range sl.Scalars {
			sl.Scalars[c] = make([]float32, 0, points)
		}
	}

	off := 0
	for i := 0; i < points; i++ {
		sl.Points = append(sl.Points,
			readFloat32(rec, off),
			readFloat32(rec, off+4),
			readFloat32(rec, off+8),
		)
		off += 12
		for c := 0; c < scalarChannels; c++ {
			sl.Scalars[c] = append(sl.Scalars[c], readFloat32(rec, off))
			off += 4
		}
	}

	if properties > 0 {
		sl.Properties = make([]float32, properties)
		for p := range sl.Properties {
			sl.Properties[p] = readFloat32(rec, off)
			off += 4
		}
	}
	return sl
}

func readInt16(data []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(data[off:]))
}

func readInt32(data []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(data[off:]))
}

func readFloat32(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}
