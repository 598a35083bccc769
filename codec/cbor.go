// Package codec provides the CBOR encoding used when exporting
// tractograms and headers in binary form.
//
// The encoder is configured for Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer widths, no
// indefinite-length items. Exporting the same tractogram twice
// therefore produces identical bytes, which makes exported files
// diffable and content-addressable. The decoder accepts standard
// CBOR from any producer.
package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// format.Format implements encoding.TextMarshaler, so headers
	// carry "trk"/"tck"/"trx" text rather than a bare enum integer.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Header metadata is map[string]any. The CBOR default for
		// any-typed targets is map[interface{}]interface{}; forcing
		// map[string]any keeps decoded metadata interchangeable with
		// encoding/json output.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder. Type alias so consumers import
// only this package, not the CBOR library directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder.
type Decoder = cbor.Decoder

// RawMessage is a raw encoded CBOR value, useful for delaying the
// decode of producer-specific metadata.
type RawMessage = cbor.RawMessage

// NewEncoder returns a CBOR encoder writing deterministic CBOR to w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}
