package format

import (
	"fmt"
	"strings"
)

// Parse maps a format name to its Format value, case-insensitively.
// The empty string and "auto" parse to Unknown, which callers treat
// as "detect from content". Anything else is an error.
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trk":
		return TRK, nil
	case "tck":
		return TCK, nil
	case "trx":
		return TRX, nil
	case "", "auto", "unknown":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown tractography format %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler. Formats serialize as
// their lowercase names so they read naturally in JSON, YAML, and
// CBOR output.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(f.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
