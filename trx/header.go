package trx

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/fibra/decode"
)

// Required header.json keys. Everything else the producer wrote is
// carried through untouched.
const (
	keyVoxelToRAS      = "VOXEL_TO_RASMM"
	keyDimensions      = "DIMENSIONS"
	keyStreamlineCount = "NB_STREAMLINES"
	keyVertexCount     = "NB_VERTICES"
)

// Header is the decoded header.json of a tractogram archive.
type Header struct {
	// VoxelToRAS maps voxel indices to RAS millimetre space,
	// row-major.
	VoxelToRAS [4][4]float64

	// Dimensions is the reference image grid size in voxels.
	Dimensions [3]int

	// StreamlineCount and VertexCount are the producer's declared
	// totals. They are advisory; the offsets and positions arrays are
	// authoritative.
	StreamlineCount int
	VertexCount     int

	// Extras holds every top-level key the decoder does not
	// recognize.
	Extras map[string]any
}

// ParseHeader decodes and validates a header.json document.
func ParseHeader(data []byte) (*Header, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("header.json is not a JSON object: %v: %w", err, decode.ErrHeaderMalformed)
	}

	h := &Header{}

	msg, ok := raw[keyVoxelToRAS]
	if !ok {
		return nil, missingKey(keyVoxelToRAS)
	}
	var matrix [][]float64
	if err := json.Unmarshal(msg, &matrix); err != nil || len(matrix) != 4 {
		return nil, fmt.Errorf("%s is not a 4x4 matrix: %w", keyVoxelToRAS, decode.ErrHeaderMalformed)
	}
	for i, row := range matrix {
		if len(row) != 4 {
			return nil, fmt.Errorf("%s row %d has %d values, want 4: %w",
				keyVoxelToRAS, i, len(row), decode.ErrHeaderMalformed)
		}
		copy(h.VoxelToRAS[i][:], row)
	}

	msg, ok = raw[keyDimensions]
	if !ok {
		return nil, missingKey(keyDimensions)
	}
	var dims []int64
	if err := json.Unmarshal(msg, &dims); err != nil || len(dims) != 3 {
		return nil, fmt.Errorf("%s is not an array of 3 integers: %w", keyDimensions, decode.ErrHeaderMalformed)
	}
	for i, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("%s[%d] is %d, must be non-negative: %w",
				keyDimensions, i, d, decode.ErrHeaderMalformed)
		}
		h.Dimensions[i] = int(d)
	}

	count, err := nonNegativeInt(raw, keyStreamlineCount)
	if err != nil {
		return nil, err
	}
	h.StreamlineCount = count

	count, err = nonNegativeInt(raw, keyVertexCount)
	if err != nil {
		return nil, err
	}
	h.VertexCount = count

	for key, msg := range raw {
		switch key {
		case keyVoxelToRAS, keyDimensions, keyStreamlineCount, keyVertexCount:
			continue
		}
		var value any
		if err := json.Unmarshal(msg, &value); err != nil {
			continue
		}
		if h.Extras == nil {
			h.Extras = make(map[string]any)
		}
		h.Extras[key] = value
	}

	return h, nil
}

// VoxelSize derives physical voxel dimensions from the affine: the
// Euclidean norm of each of the first three columns, taken over the
// first three rows.
func (h *Header) VoxelSize() [3]float32 {
	var size [3]float32
	for j := 0; j < 3; j++ {
		col := mat.NewVecDense(3, []float64{
			h.VoxelToRAS[0][j],
			h.VoxelToRAS[1][j],
			h.VoxelToRAS[2][j],
		})
		size[j] = float32(mat.Norm(col, 2))
	}
	return size
}

func nonNegativeInt(raw map[string]json.RawMessage, key string) (int, error) {
	msg, ok := raw[key]
	if !ok {
		return 0, missingKey(key)
	}
	var n int64
	if err := json.Unmarshal(msg, &n); err != nil || n < 0 {
		return 0, fmt.Errorf("%s is not a non-negative integer: %w", key, decode.ErrHeaderMalformed)
	}
	return int(n), nil
}

func missingKey(key string) error {
	return fmt.Errorf("header.json is missing %s: %w", key, decode.ErrHeaderMalformed)
}
