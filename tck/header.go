package tck

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/fibra/decode"
)

// maxHeaderScan bounds the search for the END marker. A TCK header
// that has not terminated within the first 10KB is treated as
// malformed rather than scanned to the end of an arbitrarily large
// buffer.
const maxHeaderScan = 10 * 1024

// endMarker terminates the text header; the binary track data starts
// after it (or at the offset the file field declares).
const endMarker = "END"

// magicLine identifies a TCK file. Matching is case-insensitive.
const magicLine = "mrtrix tracks"

// Datatypes the body reader supports. MRtrix can emit other encodings
// but streamline files in the wild use these four.
const (
	DatatypeFloat32LE = "Float32LE"
	DatatypeFloat32BE = "Float32BE"
	DatatypeFloat64LE = "Float64LE"
	DatatypeFloat64BE = "Float64BE"
)

// Header is the parsed TCK text header.
type Header struct {
	// Datatype is the validated on-disk vertex encoding, one of the
	// Datatype* constants.
	Datatype string

	// DataOffset is the byte position where track data begins. When
	// the header has no file field it is the byte after the END
	// marker's newline.
	DataOffset int

	// Count is the declared streamline count, zero when the header
	// does not carry one. Declared counts may overstate the body.
	Count int

	// TotalCount mirrors the informational total_count field.
	TotalCount int

	// Timestamp is the header's timestamp field, zero when absent.
	Timestamp float64

	// Fields retains every key/value line verbatim, keyed by the
	// lowercased field name.
	Fields map[string]string
}

// ParseHeader reads the text header at the start of data: lines of
// "key: value" pairs terminated by a line reading END. The first line
// must identify the file as an MRtrix track file.
func ParseHeader(data []byte) (*Header, error) {
	window := data
	if len(window) > maxHeaderScan {
		window = window[:maxHeaderScan]
	}

	var (
		lines     []string
		headerEnd = -1
		pos       = 0
	)
	for pos < len(window) {
		nl := bytes.IndexByte(window[pos:], '\n')
		if nl < 0 {
			break
		}
		line := strings.TrimSuffix(string(window[pos:pos+nl]), "\r")
		pos += nl + 1
		if line == endMarker {
			headerEnd = pos
			break
		}
		lines = append(lines, line)
	}
	if headerEnd < 0 {
		return nil, fmt.Errorf("no %s line within the first %d bytes: %w",
			endMarker, maxHeaderScan, decode.ErrHeaderMalformed)
	}
	if len(lines) == 0 || !strings.Contains(strings.ToLower(lines[0]), magicLine) {
		return nil, fmt.Errorf("first header line does not identify an mrtrix track file: %w",
			decode.ErrMissingMagic)
	}

	h := &Header{
		DataOffset: headerEnd,
		Fields:     map[string]string{},
	}
	for i, line := range lines {
		if i == 0 && strings.EqualFold(strings.TrimSpace(line), magicLine) {
			// Magic marker, not a key/value pair.
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		h.Fields[key] = value

		switch key {
		case "datatype":
			h.Datatype = value
		case "file":
			offset, err := parseFileField(value)
			if err != nil {
				return nil, err
			}
			h.DataOffset = offset
		case "count":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				h.Count = n
			}
		case "total_count":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				h.TotalCount = n
			}
		case "timestamp":
			if ts, err := strconv.ParseFloat(value, 64); err == nil {
				h.Timestamp = ts
			}
		}
	}

	switch h.Datatype {
	case DatatypeFloat32LE, DatatypeFloat32BE, DatatypeFloat64LE, DatatypeFloat64BE:
	case "":
		return nil, fmt.Errorf("header does not declare a datatype: %w", decode.ErrHeaderMalformed)
	default:
		return nil, fmt.Errorf("unsupported datatype %q: %w", h.Datatype, decode.ErrUnsupportedEncoding)
	}

	return h, nil
}

// parseFileField resolves the file field to a same-file byte offset.
// Accepted forms are a bare integer or the two-token ". <offset>"
// form; references to external data files are not supported.
func parseFileField(value string) (int, error) {
	fields := strings.Fields(value)
	switch {
	case len(fields) == 1:
		if offset, err := strconv.Atoi(fields[0]); err == nil && offset >= 0 {
			return offset, nil
		}
	case len(fields) == 2 && fields[0] == ".":
		if offset, err := strconv.Atoi(fields[1]); err == nil && offset >= 0 {
			return offset, nil
		}
	}
	return 0, fmt.Errorf("file field %q is not a same-file byte offset: %w",
		value, decode.ErrHeaderMalformed)
}
