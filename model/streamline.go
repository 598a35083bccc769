package model

import "golang.org/x/image/math/f32"

// Streamline is a single fiber track: an ordered 3D polyline with
// optional per-point scalars and per-track properties. Point
// coordinates are stored flat as x,y,z triplets, so the slice length
// is always three times the point count.
type Streamline struct {
	// Points holds the polyline vertices as consecutive x,y,z
	// triplets in file order.
	Points []float32 `json:"points"`

	// Scalars holds the per-point scalar channels. The outer slice is
	// indexed by channel; every channel has exactly one value per
	// point. Nil when the source format carries no per-point data.
	Scalars [][]float32 `json:"scalars,omitempty"`

	// Properties holds one value per per-track property. Nil when the
	// source format carries no per-track data.
	Properties []float32 `json:"properties,omitempty"`
}

// PointCount returns the number of vertices in the streamline.
func (s *Streamline) PointCount() int {
	return len(s.Points) / 3
}

// Point returns vertex i as a 3-component vector. It panics if i is
// out of range, matching slice indexing semantics.
func (s *Streamline) Point(i int) f32.Vec3 {
	return f32.Vec3{s.Points[3*i], s.Points[3*i+1], s.Points[3*i+2]}
}
