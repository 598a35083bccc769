// Package format provides file format detection for the fibra library.
package format

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
)

// Format represents a supported tractography format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// TRK indicates a TrackVis (.trk) file.
	TRK
	// TCK indicates an MRtrix (.tck) file.
	TCK
	// TRX indicates a TRX (.trx) archive.
	TRX
)

// zipLocalHeaderSignature is the little-endian magic of a ZIP local
// file header ("PK\x03\x04"). TRX files are ZIP archives, so this is
// the only magic a TRX file can start with.
const zipLocalHeaderSignature = 0x04034b50

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case TRK:
		return "TRK"
	case TCK:
		return "TCK"
	case TRX:
		return "TRX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case TRK:
		return ".trk"
	case TCK:
		return ".tck"
	case TRX:
		return ".trx"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".trk":
		return TRK
	case ".tck":
		return TCK
	case ".trx":
		return TRX
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	switch {
	case IsTRK(data):
		return TRK
	case IsTCK(data):
		return TCK
	case IsTRX(data):
		return TRX
	default:
		return Unknown
	}
}

// IsTRK reports whether the buffer starts with the TrackVis magic.
// A TRK header begins with a 6-byte ID field whose content starts
// with the ASCII string "TRACK" (the sixth byte is normally NUL).
// The probe never panics; short buffers are simply not TRK.
func IsTRK(data []byte) bool {
	if len(data) < 6 {
		return false
	}
	return strings.HasPrefix(string(data[:6]), "TRACK")
}

// IsTCK reports whether the buffer starts with an MRtrix tracks
// header. The first header line of a .tck file is "mrtrix tracks";
// the probe scans at most the first 100 bytes, case-insensitively.
func IsTCK(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	window := data
	if len(window) > 100 {
		window = window[:100]
	}
	return bytes.Contains(bytes.ToLower(window), []byte("mrtrix tracks"))
}

// IsTRX reports whether the buffer starts with a ZIP local file
// header, which is how every TRX archive begins.
func IsTRX(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return binary.LittleEndian.Uint32(data[:4]) == zipLocalHeaderSignature
}
