package trk

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/fibra/decode"
)

// headerSize is the fixed byte length of a TRK header. The header's
// own hdr_size field must hold exactly this value.
const headerSize = 1000

// magic is the identifier at the start of every TRK file. The on-disk
// field is 6 bytes; only the first 5 are significant.
const magic = "TRACK"

// nameSlots and nameSlotSize describe the fixed name tables: ten
// 20-byte slots each for scalar-channel and property names.
const (
	nameSlots    = 10
	nameSlotSize = 20
)

// Field offsets within the 1000-byte header. All multi-byte fields
// are little-endian.
const (
	offDimensions       = 6
	offVoxelSize        = 12
	offOrigin           = 24
	offScalarCount      = 36
	offScalarNames      = 38
	offPropertyCount    = 238
	offPropertyNames    = 240
	offVoxelToRAS       = 440
	offVoxelOrder       = 948
	offImageOrientation = 956
	offInvertFlags      = 982
	offSwapFlags        = 985
	offStreamlineCount  = 988
	offVersion          = 992
	offHeaderSize       = 996
)

// Header is the decoded form of the fixed 1000-byte TRK file header.
type Header struct {
	// Dimensions is the source volume size in voxels.
	Dimensions [3]int16

	// VoxelSize is the voxel spacing in millimeters per axis.
	VoxelSize [3]float32

	// Origin is the volume origin in millimeters. TrackVis writes it
	// but most producers leave it zero.
	Origin [3]float32

	// ScalarCount is the number of per-point scalar channels stored
	// with every point of every streamline record.
	ScalarCount int16

	// ScalarNames holds one name per scalar channel, in channel
	// order. Empty slots are omitted.
	ScalarNames []string

	// PropertyCount is the number of per-track property values stored
	// after the points of every streamline record.
	PropertyCount int16

	// PropertyNames holds one name per property, in property order.
	PropertyNames []string

	// VoxelToRAS is the 4x4 voxel-to-RAS affine in row-major order.
	VoxelToRAS [16]float32

	// VoxelOrder is the anatomical axis ordering, e.g. "RAS" or "LPS".
	VoxelOrder string

	// ImageOrientation is the DICOM-style patient orientation (two
	// direction cosines).
	ImageOrientation [6]float32

	// Axis inversion and swap flags, carried through for consumers
	// that reorient geometry.
	InvertX, InvertY, InvertZ bool
	SwapXY, SwapYZ, SwapZX    bool

	// StreamlineCount is the count the file declares. Zero means
	// unspecified; a nonzero value may overstate what the body
	// actually holds.
	StreamlineCount int32

	// Version is the TRK format version, 2 for current files.
	Version int32

	// HeaderSize is the header's own length field, always 1000 in a
	// valid file.
	HeaderSize int32
}

// ParseHeader decodes and validates the fixed header at the start of
// data. Validation fails closed: every out-of-range field is its own
// error so callers can report the offending value.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < len(magic) || !strings.HasPrefix(string(data[:len(magic)]), magic) {
		return nil, fmt.Errorf("identifier is not %q: %w", magic, decode.ErrMissingMagic)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("file is %d bytes, the header alone needs %d: %w",
			len(data), headerSize, decode.ErrTruncated)
	}

	h := &Header{
		ScalarCount:     readInt16(data, offScalarCount),
		PropertyCount:   readInt16(data, offPropertyCount),
		VoxelOrder:      decodeLatin1(data[offVoxelOrder : offVoxelOrder+4]),
		StreamlineCount: readInt32(data, offStreamlineCount),
		Version:         readInt32(data, offVersion),
		HeaderSize:      readInt32(data, offHeaderSize),
	}
	for i := 0; i < 3; i++ {
		h.Dimensions[i] = readInt16(data, offDimensions+2*i)
		h.VoxelSize[i] = readFloat32(data, offVoxelSize+4*i)
		h.Origin[i] = readFloat32(data, offOrigin+4*i)
	}
	for i := 0; i < 16; i++ {
		h.VoxelToRAS[i] = readFloat32(data, offVoxelToRAS+4*i)
	}
	for i := 0; i < 6; i++ {
		h.ImageOrientation[i] = readFloat32(data, offImageOrientation+4*i)
	}
	h.InvertX = data[offInvertFlags] != 0
	h.InvertY = data[offInvertFlags+1] != 0
	h.InvertZ = data[offInvertFlags+2] != 0
	h.SwapXY = data[offSwapFlags] != 0
	h.SwapYZ = data[offSwapFlags+1] != 0
	h.SwapZX = data[offSwapFlags+2] != 0

	if h.HeaderSize != headerSize {
		return nil, fmt.Errorf("header size field is %d, must be %d: %w",
			h.HeaderSize, headerSize, decode.ErrHeaderMalformed)
	}
	if h.ScalarCount < 0 || h.ScalarCount > nameSlots {
		return nil, fmt.Errorf("scalar channel count %d outside [0, %d]: %w",
			h.ScalarCount, nameSlots, decode.ErrHeaderMalformed)
	}
	if h.PropertyCount < 0 || h.PropertyCount > nameSlots {
		return nil, fmt.Errorf("property count %d outside [0, %d]: %w",
			h.PropertyCount, nameSlots, decode.ErrHeaderMalformed)
	}
	for i, d := range h.Dimensions {
		if d < 0 {
			return nil, fmt.Errorf("dimension %d is %d, outside [0, 65535]: %w",
				i, d, decode.ErrHeaderMalformed)
		}
	}
	for i, v := range h.VoxelSize {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return nil, fmt.Errorf("voxel size %g along axis %d is not a finite non-negative value: %w",
				v, i, decode.ErrHeaderMalformed)
		}
	}

	h.ScalarNames = readNameTable(data[offScalarNames:], int(h.ScalarCount))
	h.PropertyNames = readNameTable(data[offPropertyNames:], int(h.PropertyCount))

	return h, nil
}

// readNameTable decodes the first n entries of a 10-slot name table.
func readNameTable(table []byte, n int) []string {
	if n == 0 {
		return nil
	}
	names := make([]string, 0, n)
	for i := 0; i < n && i < nameSlots; i++ {
		names = append(names, decodeLatin1(table[i*nameSlotSize:(i+1)*nameSlotSize]))
	}
	return names
}

// decodeLatin1 converts a fixed-width header string field to UTF-8.
// TrackVis writers fill these fields with Latin-1 text padded by NUL
// bytes.
func decodeLatin1(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	// Latin-1 decoding maps every byte, so the error is always nil.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(field)
	return strings.TrimSpace(string(out))
}
