package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// maxInflatedSize is the absolute ceiling on inflated output, applied
// when the container did not declare an uncompressed size. Declared
// sizes above this are rejected outright.
const maxInflatedSize = 1 << 30

// Inflate decompresses a raw DEFLATE stream (RFC 1951, no zlib or gzip
// wrapper). When expectedSize is non-negative the stream must inflate
// to exactly that many bytes: fewer means the member was truncated,
// more means the size field lied. When expectedSize is negative the
// output is allowed to grow up to maxInflatedSize.
func Inflate(data []byte, expectedSize int) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()

	if expectedSize < 0 {
		var buf bytes.Buffer
		n, err := io.Copy(&buf, io.LimitReader(reader, maxInflatedSize+1))
		if err != nil {
			return nil, fmt.Errorf("deflate stream is corrupt: %w", err)
		}
		if n > maxInflatedSize {
			return nil, fmt.Errorf("deflate stream exceeds %d byte ceiling", maxInflatedSize)
		}
		return buf.Bytes(), nil
	}

	if expectedSize > maxInflatedSize {
		return nil, fmt.Errorf("declared size %d exceeds %d byte ceiling", expectedSize, maxInflatedSize)
	}

	out := make([]byte, expectedSize)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("deflate stream shorter than declared %d bytes: %w", expectedSize, err)
	}

	// The stream must end exactly at the declared size.
	var probe [1]byte
	n, err := reader.Read(probe[:])
	if n != 0 {
		return nil, fmt.Errorf("deflate stream longer than declared %d bytes", expectedSize)
	}
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("deflate stream is corrupt: %w", err)
	}

	return out, nil
}
