package trx

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/tsawler/fibra/decode"
)

// ============================================================================
// Member name grammar
// ============================================================================

func TestArraySpec(t *testing.T) {
	tests := []struct {
		name       string
		member     string
		prefix     string
		dtype      string
		components int
		ok         bool
	}{
		{"dtype only", "positions.float32", positionsPrefix, "float32", 3, true},
		{"explicit components", "positions.3.float16", positionsPrefix, "float16", 3, true},
		{"four components", "positions.4.float64", positionsPrefix, "float64", 4, true},
		{"nested member", "bundle/positions.float32", positionsPrefix, "float32", 3, true},
		{"offsets", "offsets.uint64", offsetsPrefix, "uint64", 3, true},
		{"prefix needs dot", "positionsX.float32", positionsPrefix, "", 0, false},
		{"bare prefix", "positions", positionsPrefix, "", 0, false},
		{"wrong prefix", "dpv/color.3.float32", positionsPrefix, "", 0, false},
		{"directory masquerading", "positions.float32/", positionsPrefix, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dtype, components, ok := arraySpec(tt.member, tt.prefix)
			if ok != tt.ok {
				t.Fatalf("arraySpec(%q) ok = %v, want %v", tt.member, ok, tt.ok)
			}
			if !ok {
				return
			}
			if dtype != tt.dtype {
				t.Errorf("dtype = %q, want %q", dtype, tt.dtype)
			}
			if components != tt.components {
				t.Errorf("components = %d, want %d", components, tt.components)
			}
		})
	}
}

// ============================================================================
// Positions decoding
// ============================================================================

func TestDecodePositionsFloat16(t *testing.T) {
	// Half-precision values spanning normals, both zeroes, the largest
	// finite value, and a subnormal.
	bits := []uint16{
		0x3C00, // 1.0
		0xC000, // -2.0
		0x0000, // +0.0
		0x8000, // -0.0
		0x7BFF, // 65504, largest finite half
		0x3555, // ~0.3333
	}
	data := make([]byte, len(bits)*2)
	for i, b := range bits {
		binary.LittleEndian.PutUint16(data[i*2:], b)
	}

	values, err := decodePositions(member{name: "positions.3.float16", data: data}, "float16", 3)
	if err != nil {
		t.Fatalf("decodePositions failed: %v", err)
	}
	want := []float32{1.0, -2.0, 0.0, 0.0, 65504, 0.33325195}
	if len(values) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(values))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("Value %d = %g, want %g", i, values[i], want[i])
		}
	}
	// ±0 compare equal, so the sign bits need their own check.
	if math.Signbit(float64(values[2])) {
		t.Error("Value 2 should be +0")
	}
	if !math.Signbit(float64(values[3])) {
		t.Error("Value 3 should be -0")
	}
}

func TestDecodePositionsFloat16Subnormal(t *testing.T) {
	data := []byte{0x01, 0x00, 0x01, 0x00, 0x01, 0x00} // 3 x 2^-24
	values, err := decodePositions(member{name: "positions.3.float16", data: data}, "float16", 3)
	if err != nil {
		t.Fatalf("decodePositions failed: %v", err)
	}
	want := float32(math.Pow(2, -24))
	for i, v := range values {
		if v != want {
			t.Errorf("Value %d = %g, want %g", i, v, want)
		}
	}
}

func TestDecodePositionsFloat16Special(t *testing.T) {
	bits := []uint16{0x7C00, 0xFC00, 0x7E00} // +Inf, -Inf, NaN
	data := make([]byte, len(bits)*2)
	for i, b := range bits {
		binary.LittleEndian.PutUint16(data[i*2:], b)
	}

	values, err := decodePositions(member{name: "positions.float16", data: data}, "float16", 3)
	if err != nil {
		t.Fatalf("decodePositions failed: %v", err)
	}
	if !math.IsInf(float64(values[0]), 1) {
		t.Errorf("Expected +Inf, got %g", values[0])
	}
	if !math.IsInf(float64(values[1]), -1) {
		t.Errorf("Expected -Inf, got %g", values[1])
	}
	if !math.IsNaN(float64(values[2])) {
		t.Errorf("Expected NaN, got %g", values[2])
	}
}

func TestDecodePositionsFloat32(t *testing.T) {
	input := []float32{1.5, -2.25, 3.75, 0, 10, -20}
	data := make([]byte, len(input)*4)
	for i, v := range input {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}

	values, err := decodePositions(member{name: "positions.float32", data: data}, "float32", 3)
	if err != nil {
		t.Fatalf("decodePositions failed: %v", err)
	}
	for i := range input {
		if values[i] != input[i] {
			t.Errorf("Value %d = %g, want %g", i, values[i], input[i])
		}
	}
}

func TestDecodePositionsFloat64(t *testing.T) {
	input := []float64{1.5, -2.25, 3.75}
	data := make([]byte, len(input)*8)
	for i, v := range input {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}

	values, err := decodePositions(member{name: "positions.float64", data: data}, "float64", 3)
	if err != nil {
		t.Fatalf("decodePositions failed: %v", err)
	}
	for i := range input {
		if values[i] != float32(input[i]) {
			t.Errorf("Value %d = %g, want %g", i, values[i], float32(input[i]))
		}
	}
}

func TestDecodePositionsErrors(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		dtype      string
		components int
		wantErr    error
	}{
		{"unsupported dtype", make([]byte, 12), "int8", 3, decode.ErrUnsupportedEncoding},
		{"wrong component count", make([]byte, 16), "float32", 4, decode.ErrUnsupportedEncoding},
		{"misaligned bytes", make([]byte, 10), "float32", 3, decode.ErrTruncated},
		{"partial vertex", make([]byte, 16), "float32", 3, decode.ErrTruncated},
		{"misaligned half", make([]byte, 5), "float16", 3, decode.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePositions(member{name: "positions", data: tt.data}, tt.dtype, tt.components)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// ============================================================================
// Offsets decoding
// ============================================================================

func TestDecodeOffsets(t *testing.T) {
	want := []int64{0, 2, 5}

	t.Run("uint64", func(t *testing.T) {
		data := make([]byte, 24)
		for i, v := range want {
			binary.LittleEndian.PutUint64(data[i*8:], uint64(v))
		}
		checkOffsets(t, data, "uint64", want)
	})

	t.Run("int64", func(t *testing.T) {
		data := make([]byte, 24)
		for i, v := range want {
			binary.LittleEndian.PutUint64(data[i*8:], uint64(v))
		}
		checkOffsets(t, data, "int64", want)
	})

	t.Run("uint32", func(t *testing.T) {
		data := make([]byte, 12)
		for i, v := range want {
			binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
		}
		checkOffsets(t, data, "uint32", want)
	})

	t.Run("int32", func(t *testing.T) {
		data := make([]byte, 12)
		for i, v := range want {
			binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
		}
		checkOffsets(t, data, "int32", want)
	})
}

func checkOffsets(t *testing.T, data []byte, dtype string, want []int64) {
	t.Helper()
	offsets, err := decodeOffsets(member{name: "offsets." + dtype, data: data}, dtype)
	if err != nil {
		t.Fatalf("decodeOffsets failed: %v", err)
	}
	if len(offsets) != len(want) {
		t.Fatalf("Expected %d offsets, got %d", len(want), len(offsets))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("Offset %d = %d, want %d", i, offsets[i], want[i])
		}
	}
}

func TestDecodeOffsetsNegativeInt32(t *testing.T) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(0xFFFFFFFF)) // -1 as int32

	offsets, err := decodeOffsets(member{name: "offsets.int32", data: data}, "int32")
	if err != nil {
		t.Fatalf("decodeOffsets failed: %v", err)
	}
	if offsets[0] != -1 {
		t.Errorf("Expected sign-extended -1, got %d", offsets[0])
	}
}

func TestDecodeOffsetsUint64Overflow(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.MaxUint64)

	_, err := decodeOffsets(member{name: "offsets.uint64", data: data}, "uint64")
	if !errors.Is(err, decode.ErrHeaderMalformed) {
		t.Errorf("Expected ErrHeaderMalformed for unrepresentable offset, got %v", err)
	}
}

func TestDecodeOffsetsErrors(t *testing.T) {
	if _, err := decodeOffsets(member{data: make([]byte, 8)}, "float32"); !errors.Is(err, decode.ErrUnsupportedEncoding) {
		t.Errorf("Expected ErrUnsupportedEncoding for float offsets, got %v", err)
	}
	if _, err := decodeOffsets(member{data: make([]byte, 7)}, "uint64"); !errors.Is(err, decode.ErrTruncated) {
		t.Errorf("Expected ErrTruncated for misaligned offsets, got %v", err)
	}
}
