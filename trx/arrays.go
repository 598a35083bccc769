package trx

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/x448/float16"

	"github.com/tsawler/fibra/decode"
)

// Typed-array member prefixes. A member's basename encodes its layout:
// "positions.3.float16" is three components per vertex stored as
// half-precision floats, "offsets.uint64" is one unsigned 64-bit
// index per streamline. The component token is optional and defaults
// to 3.
const (
	positionsPrefix = "positions"
	offsetsPrefix   = "offsets"
)

// arraySpec extracts the dtype and component count from a typed-array
// member name. It reports ok=false when the basename does not carry
// the given prefix.
func arraySpec(name, prefix string) (dtype string, components int, ok bool) {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if !strings.HasPrefix(base, prefix+".") {
		return "", 0, false
	}
	tokens := strings.Split(base[len(prefix)+1:], ".")
	dtype = tokens[len(tokens)-1]
	components = 3
	if len(tokens) >= 2 {
		if n, err := strconv.Atoi(tokens[len(tokens)-2]); err == nil {
			components = n
		}
	}
	return dtype, components, true
}

// isArrayMember reports whether name denotes a typed-array member
// with the given prefix.
func isArrayMember(name, prefix string) bool {
	_, _, ok := arraySpec(name, prefix)
	return ok
}

// decodePositions converts a positions member's bytes into a flat
// [x, y, z, ...] slice. Half- and double-precision sources are
// converted to float32.
func decodePositions(m member, dtype string, components int) ([]float32, error) {
	if components != 3 {
		return nil, fmt.Errorf("positions member %q has %d components per vertex, want 3: %w",
			m.name, components, decode.ErrUnsupportedEncoding)
	}

	var width int
	switch dtype {
	case "float16":
		width = 2
	case "float32":
		width = 4
	case "float64":
		width = 8
	default:
		return nil, fmt.Errorf("positions member %q uses dtype %q: %w",
			m.name, dtype, decode.ErrUnsupportedEncoding)
	}
	if len(m.data)%width != 0 {
		return nil, fmt.Errorf("positions member %q is %d bytes, not a multiple of its %d-byte dtype: %w",
			m.name, len(m.data), width, decode.ErrTruncated)
	}

	values := make([]float32, len(m.data)/width)
	switch dtype {
	case "float16":
		for i := range values {
			bits := binary.LittleEndian.Uint16(m.data[i*2:])
			values[i] = float16.Frombits(bits).Float32()
		}
	case "float32":
		for i := range values {
			bits := binary.LittleEndian.Uint32(m.data[i*4:])
			values[i] = math.Float32frombits(bits)
		}
	case "float64":
		for i := range values {
			bits := binary.LittleEndian.Uint64(m.data[i*8:])
			values[i] = float32(math.Float64frombits(bits))
		}
	}

	if len(values)%3 != 0 {
		return nil, fmt.Errorf("positions member %q holds %d values, not a multiple of 3: %w",
			m.name, len(values), decode.ErrTruncated)
	}
	return values, nil
}

// decodeOffsets converts an offsets member's bytes into per-streamline
// start indices. All four source widths normalize to int64.
func decodeOffsets(m member, dtype string) ([]int64, error) {
	var width int
	switch dtype {
	case "uint64", "int64":
		width = 8
	case "uint32", "int32":
		width = 4
	default:
		return nil, fmt.Errorf("offsets member %q uses dtype %q: %w",
			m.name, dtype, decode.ErrUnsupportedEncoding)
	}
	if len(m.data)%width != 0 {
		return nil, fmt.Errorf("offsets member %q is %d bytes, not a multiple of its %d-byte dtype: %w",
			m.name, len(m.data), width, decode.ErrTruncated)
	}

	offsets := make([]int64, len(m.data)/width)
	switch dtype {
	case "uint64":
		for i := range offsets {
			v := binary.LittleEndian.Uint64(m.data[i*8:])
			if v > math.MaxInt64 {
				return nil, fmt.Errorf("offsets member %q: offset %d overflows a signed index: %w",
					m.name, i, decode.ErrHeaderMalformed)
			}
			offsets[i] = int64(v)
		}
	case "int64":
		for i := range offsets {
			offsets[i] = int64(binary.LittleEndian.Uint64(m.data[i*8:]))
		}
	case "uint32":
		for i := range offsets {
			offsets[i] = int64(binary.LittleEndian.Uint32(m.data[i*4:]))
		}
	case "int32":
		for i := range offsets {
			offsets[i] = int64(int32(binary.LittleEndian.Uint32(m.data[i*4:])))
		}
	}
	return offsets, nil
}
