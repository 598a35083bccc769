// Package trx decodes TRX tractography archives.
//
// A TRX file is a ZIP archive whose members follow a naming
// convention: a header.json document with the spatial reference, a
// positions member holding every vertex of every streamline as a flat
// typed array, and an offsets member marking where each streamline's
// vertices start. The decoder walks the archive's local file headers
// directly, inflates or copies the three required members, and
// rebuilds the streamlines from the offsets. Members whose
// compression method is unsupported are skipped and reported through
// the tractogram metadata rather than failing the decode.
//
// Unlike the TRK and TCK decoders, truncation inside a required
// member is fatal here: a half-written archive member cannot be
// separated from a corrupt one.
package trx

import (
	"fmt"
	"strings"

	"github.com/tsawler/fibra/decode"
	"github.com/tsawler/fibra/format"
	"github.com/tsawler/fibra/model"
)

const headerMemberName = "header.json"

// Decode reads a complete TRX archive and reconstructs its
// streamlines. The returned tractogram's metadata carries the
// declared streamline and vertex counts, the positions dtype, and the
// names of any skipped members.
func Decode(data []byte, limits decode.Limits) (*model.Tractogram, error) {
	if err := decode.CheckSize(int64(len(data)), limits); err != nil {
		return nil, err
	}
	if !format.IsTRX(data) {
		return nil, fmt.Errorf("buffer does not start with a ZIP local file header: %w", decode.ErrMissingMagic)
	}

	ar, err := walkArchive(data)
	if err != nil {
		return nil, err
	}

	header, err := headerFromArchive(ar)
	if err != nil {
		return nil, err
	}

	posMember, ok := ar.find(func(name string) bool { return isArrayMember(name, positionsPrefix) })
	if !ok {
		return nil, fmt.Errorf("archive has no positions member: %w", decode.ErrMissingMember)
	}
	dtype, components, _ := arraySpec(posMember.name, positionsPrefix)
	positions, err := decodePositions(posMember, dtype, components)
	if err != nil {
		return nil, err
	}

	offMember, ok := ar.find(func(name string) bool { return isArrayMember(name, offsetsPrefix) })
	if !ok {
		return nil, fmt.Errorf("archive has no offsets member: %w", decode.ErrMissingMember)
	}
	offDtype, _, _ := arraySpec(offMember.name, offsetsPrefix)
	offsets, err := decodeOffsets(offMember, offDtype)
	if err != nil {
		return nil, err
	}

	tract := model.NewTractogram(format.TRX)
	tract.Header = unifiedHeader(header, dtype, ar.skipped)
	reconstruct(tract, positions, offsets, header.StreamlineCount)
	tract.Header.StreamlineCount = len(tract.Streamlines)
	return tract, nil
}

// DecodeHeader reads only the archive's header.json and returns the
// unified header. The declared streamline count stands in for the
// reconstructed one, since the positions are never decoded.
func DecodeHeader(data []byte, limits decode.Limits) (*model.Header, error) {
	if err := decode.CheckSize(int64(len(data)), limits); err != nil {
		return nil, err
	}
	if !format.IsTRX(data) {
		return nil, fmt.Errorf("buffer does not start with a ZIP local file header: %w", decode.ErrMissingMagic)
	}

	ar, err := walkArchive(data)
	if err != nil {
		return nil, err
	}
	header, err := headerFromArchive(ar)
	if err != nil {
		return nil, err
	}

	h := unifiedHeader(header, "", ar.skipped)
	h.StreamlineCount = header.StreamlineCount
	return &h, nil
}

// headerFromArchive locates and parses the header.json member. The
// member may sit at the archive root or one directory deep; anything
// deeper is some other structure's header.
func headerFromArchive(ar *archive) (*Header, error) {
	m, ok := ar.find(isHeaderMember)
	if !ok {
		return nil, fmt.Errorf("archive has no header.json member: %w", decode.ErrMissingMember)
	}
	return ParseHeader(m.data)
}

func isHeaderMember(name string) bool {
	segments := strings.Split(name, "/")
	return len(segments) <= 2 && segments[len(segments)-1] == headerMemberName
}

// reconstruct slices the flat positions array into streamlines. Each
// offsets[i] is the index of streamline i's first vertex; its last
// vertex ends where the next streamline begins, or at the end of the
// positions array for the final streamline. Degenerate entries
// (negative starts, out-of-range spans, fewer than two vertices) are
// skipped rather than failing the decode.
func reconstruct(tract *model.Tractogram, positions []float32, offsets []int64, declared int) {
	totalVertices := int64(len(positions) / 3)

	count := len(offsets)
	if declared < count {
		count = declared
	}
	for i := 0; i < count; i++ {
		start := offsets[i]
		end := totalVertices
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if end > totalVertices {
			end = totalVertices
		}
		if start < 0 || end-start < 2 {
			continue
		}
		pts := positions[start*3 : end*3 : end*3]
		tract.AddStreamline(model.Streamline{Points: pts})
	}
}

// unifiedHeader maps the archive header onto the format-independent
// header. Producer-specific header.json keys survive in the metadata
// alongside the standard entries.
func unifiedHeader(h *Header, dtype string, skipped []string) model.Header {
	out := model.Header{
		Format:     format.TRX,
		Dimensions: h.Dimensions,
		VoxelSize:  h.VoxelSize(),
		Metadata: map[string]any{
			model.MetaVoxelToRAS:    h.VoxelToRAS,
			model.MetaDeclaredCount: h.StreamlineCount,
			model.MetaVertexCount:   h.VertexCount,
		},
	}
	if dtype != "" {
		out.Metadata[model.MetaDatatype] = dtype
	}
	if len(skipped) > 0 {
		out.Metadata[model.MetaSkippedMembers] = skipped
	}
	for key, value := range h.Extras {
		out.Metadata[key] = value
	}
	return out
}
