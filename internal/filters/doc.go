// Package filters provides decompression for container member data.
//
// Tractography containers store member payloads either raw or
// compressed. This package implements the decompression side, with
// output guards so a hostile archive cannot inflate into unbounded
// memory.
//
// # Supported Filters
//
// Inflate (raw DEFLATE, RFC 1951 — no zlib or gzip wrapper):
//
//	decoded, err := filters.Inflate(data, expectedSize)
//
// When expectedSize is non-negative the stream must inflate to exactly
// that many bytes; a shortfall or excess is an error. Pass a negative
// expectedSize when the container did not declare one, in which case
// the output is capped at an absolute ceiling instead.
package filters
