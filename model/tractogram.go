package model

import "github.com/tsawler/fibra/format"

// Metadata keys used by the decoders for format-specific header
// fields that have no common slot in Header.
const (
	// MetaVoxelToRAS is the 4x4 voxel-to-RAS affine as a flat
	// [16]float32 in row-major order (TRK) or a [][]float64 (TRX).
	MetaVoxelToRAS = "voxel_to_ras"

	// MetaDeclaredCount is the streamline count the source file
	// claimed in its header, when it declared one. Zero means the
	// file left the count unspecified.
	MetaDeclaredCount = "declared_count"

	// MetaVertexCount is the total vertex count a TRX header
	// declared.
	MetaVertexCount = "vertex_count"

	// MetaSkippedMembers lists TRX archive member names that were
	// present but not decoded, as a []string.
	MetaSkippedMembers = "skipped_members"

	// MetaVoxelOrder is the TRK voxel order string, e.g. "RAS".
	MetaVoxelOrder = "voxel_order"

	// MetaDatatype is the on-disk vertex datatype, e.g. "Float32LE"
	// for TCK or "float16" for TRX positions.
	MetaDatatype = "datatype"
)

// Header carries the decoded file-level fields shared by all
// tractography formats, plus an open metadata map for format-specific
// extras.
type Header struct {
	// Format identifies the container the data was decoded from.
	Format format.Format `json:"format"`

	// Dimensions is the source volume size in voxels along x, y, z.
	// All zeros when the format does not record it.
	Dimensions [3]int `json:"dimensions"`

	// VoxelSize is the voxel edge length in millimeters along each
	// axis. Decoders that cannot determine it use {1, 1, 1}.
	VoxelSize [3]float32 `json:"voxel_size"`

	// StreamlineCount is the number of streamlines actually decoded.
	// It always equals len(Tractogram.Streamlines); a count the file
	// declared but did not deliver lives in Metadata under
	// MetaDeclaredCount.
	StreamlineCount int `json:"streamline_count"`

	// Version is the format version the file reported, when the
	// format has one.
	Version int `json:"version,omitempty"`

	// Metadata holds format-specific header fields keyed by the Meta*
	// constants plus any raw key/value pairs the source header
	// carried.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Tractogram is a fully decoded tractography file: the header plus
// every streamline in file order.
type Tractogram struct {
	Header      Header       `json:"header"`
	Streamlines []Streamline `json:"streamlines"`
}

// NewTractogram returns an empty tractogram for the given format with
// the voxel size defaulted to 1mm isotropic and an allocated metadata
// map.
func NewTractogram(f format.Format) *Tractogram {
	return &Tractogram{
		Header: Header{
			Format:    f,
			VoxelSize: [3]float32{1, 1, 1},
			Metadata:  map[string]any{},
		},
	}
}

// AddStreamline appends s and keeps the header count in sync.
func (t *Tractogram) AddStreamline(s Streamline) {
	t.Streamlines = append(t.Streamlines, s)
	t.Header.StreamlineCount = len(t.Streamlines)
}

// TotalPoints returns the vertex count summed over all streamlines.
func (t *Tractogram) TotalPoints() int {
	var n int
	for i := range t.Streamlines {
		n += t.Streamlines[i].PointCount()
	}
	return n
}

// IsEmpty reports whether the tractogram contains no streamlines.
func (t *Tractogram) IsEmpty() bool {
	return len(t.Streamlines) == 0
}
