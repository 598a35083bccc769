package trx

import (
	"fmt"
	"strings"

	"github.com/tsawler/fibra/decode"
	"github.com/tsawler/fibra/internal/filters"
	"github.com/tsawler/fibra/internal/lebuf"
)

// ZIP local-file-header constants. The walker reads local headers
// only; TRX producers emit simple sequential archives, so the central
// directory carries nothing the local headers don't.
const (
	localHeaderSignature    = 0x04034b50
	dataDescriptorSignature = 0x08074b50

	methodStore   = 0
	methodDeflate = 8

	flagEncrypted      = 0x0001
	flagDataDescriptor = 0x0008
)

// member is one decoded archive entry.
type member struct {
	name string
	data []byte
}

// archive holds every decoded entry in file order, plus the names of
// entries skipped because their compression method is unsupported.
type archive struct {
	members []member
	skipped []string
}

// walkArchive scans data as a sequence of ZIP local file headers
// starting at offset 0 and decodes each entry's payload. The walk
// stops at the first position that does not start with the local
// header signature (normally the central directory). STORE entries
// are copied, DEFLATE entries inflated; entries using any other
// method are recorded as skipped with their bytes consumed so the
// walk stays aligned.
func walkArchive(data []byte) (*archive, error) {
	var (
		ar = &archive{}
		r  = lebuf.NewReader(data)
	)
	for {
		sig, ok := r.Uint32()
		if !ok || sig != localHeaderSignature {
			break
		}

		// Fixed fields after the signature: version(2), flags(2),
		// method(2), mod time(2), mod date(2), crc(4), compressed
		// size(4), uncompressed size(4), name length(2), extra
		// length(2).
		if !r.Skip(2) {
			return nil, entryTruncated(len(ar.members))
		}
		flags, ok := r.Uint16()
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		method, ok := r.Uint16()
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		if !r.Skip(8) {
			return nil, entryTruncated(len(ar.members))
		}
		compressedSize, ok := r.Uint32()
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		uncompressedSize, ok := r.Uint32()
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		nameLen, ok := r.Uint16()
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		extraLen, ok := r.Uint16()
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		nameBytes, ok := r.Bytes(int(nameLen))
		if !ok {
			return nil, entryTruncated(len(ar.members))
		}
		name := string(nameBytes)
		if !r.Skip(int(extraLen)) {
			return nil, fmt.Errorf("entry %q: header ends mid-extra-field: %w", name, decode.ErrTruncated)
		}

		if flags&flagEncrypted != 0 {
			return nil, fmt.Errorf("entry %q is encrypted: %w", name, decode.ErrUnsupportedEncoding)
		}
		if flags&flagDataDescriptor != 0 && compressedSize == 0 {
			// Sizes live in a trailing data descriptor we cannot
			// locate without decoding the stream.
			return nil, fmt.Errorf("entry %q deferred its sizes to a data descriptor: %w",
				name, decode.ErrUnsupportedEncoding)
		}

		switch method {
		case methodStore, methodDeflate:
			raw, ok := r.Bytes(int(compressedSize))
			if !ok {
				return nil, fmt.Errorf("entry %q: data region truncated: %w", name, decode.ErrTruncated)
			}
			payload := raw
			if method == methodDeflate {
				inflated, err := filters.Inflate(raw, int(uncompressedSize))
				if err != nil {
					return nil, fmt.Errorf("entry %q: %v: %w", name, err, decode.ErrTruncated)
				}
				payload = inflated
			}
			if !isDirectory(name) {
				ar.members = append(ar.members, member{name: name, data: payload})
			}
		default:
			if !r.Skip(int(compressedSize)) {
				// Nothing decodable can follow a truncated tail
				// entry; keep what was collected.
				ar.skipped = append(ar.skipped, name)
				return ar, nil
			}
			ar.skipped = append(ar.skipped, name)
		}

		if flags&flagDataDescriptor != 0 {
			skipDataDescriptor(r)
		}
	}
	return ar, nil
}

// skipDataDescriptor consumes the optional descriptor that follows an
// entry's data when flag bit 3 is set: crc(4), compressed size(4),
// uncompressed size(4), optionally preceded by its own signature.
func skipDataDescriptor(r *lebuf.Reader) {
	if sig, ok := r.PeekUint32(); ok && sig == dataDescriptorSignature {
		r.Skip(16)
		return
	}
	r.Skip(12)
}

// find returns the first entry whose name matches the given
// predicate.
func (a *archive) find(match func(name string) bool) (member, bool) {
	for _, m := range a.members {
		if match(m.name) {
			return m, true
		}
	}
	return member{}, false
}

// isDirectory reports whether an entry is a directory placeholder.
func isDirectory(name string) bool {
	return strings.HasSuffix(name, "/")
}

func entryTruncated(index int) error {
	return fmt.Errorf("archive ends inside entry %d's local header: %w", index, decode.ErrTruncated)
}
