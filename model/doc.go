// Package model provides the unified in-memory representation of
// decoded tractography content.
//
// This package defines the user-facing data structures that every
// format decoder produces and every consumer reads. All decoding
// operations ultimately produce these types, making them the primary
// API for consuming tractography data.
//
// # Structure
//
// The [Tractogram] type represents one decoded file: a [Header] plus
// an ordered list of [Streamline] values:
//
//	tract := model.NewTractogram(format.TRK)
//	tract.AddStreamline(sl)
//
// Each [Streamline] is a 3D polyline stored as a flat float32 slice
// (x0,y0,z0,x1,y1,z1,...), with optional per-point scalar channels and
// an optional per-track property vector. Decoders never emit a
// streamline with fewer than two points.
//
// # Header
//
// [Header] carries the fields common to all three formats — volume
// dimensions, voxel size, version, streamline count — plus an open
// metadata map for format-specific extras (the TRK voxel-to-RAS
// matrix, raw TCK header fields, the TRX vertex count). The count in
// the header always reflects what was actually decoded, not what the
// source file claimed.
//
// # Geometry
//
// [BoundingBox] is the axis-aligned box around a set of streamlines,
// recomputed by [ComputeBounds] whenever the active subset changes.
// Corners use f32.Vec3 to match the float32 precision of the point
// data.
//
// All structures are created fresh per decode call and are not shared
// between results.
package model
