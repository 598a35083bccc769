package model

import (
	"math"

	"golang.org/x/image/math/f32"
)

// BoundingBox is an axis-aligned box in RAS millimeter space. Min and
// Max are the componentwise extremes of the enclosed points.
type BoundingBox struct {
	Min f32.Vec3 `json:"min"`
	Max f32.Vec3 `json:"max"`
}

// ComputeBounds returns the axis-aligned bounding box of every vertex
// in the given streamlines. An empty input (no streamlines, or only
// empty ones) yields the zero box rather than infinities, so callers
// can serialize the result without special cases.
func ComputeBounds(streamlines []Streamline) BoundingBox {
	first := true
	var box BoundingBox
	for i := range streamlines {
		pts := streamlines[i].Points
		for j := 0; j+2 < len(pts); j += 3 {
			x, y, z := pts[j], pts[j+1], pts[j+2]
			if first {
				box.Min = f32.Vec3{x, y, z}
				box.Max = f32.Vec3{x, y, z}
				first = false
				continue
			}
			if x < box.Min[0] {
				box.Min[0] = x
			}
			if y < box.Min[1] {
				box.Min[1] = y
			}
			if z < box.Min[2] {
				box.Min[2] = z
			}
			if x > box.Max[0] {
				box.Max[0] = x
			}
			if y > box.Max[1] {
				box.Max[1] = y
			}
			if z > box.Max[2] {
				box.Max[2] = z
			}
		}
	}
	return box
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() f32.Vec3 {
	return f32.Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the edge lengths of the box along each axis.
func (b BoundingBox) Size() f32.Vec3 {
	return f32.Vec3{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// Diagonal returns the euclidean length of the box diagonal.
func (b BoundingBox) Diagonal() float64 {
	s := b.Size()
	return math.Sqrt(float64(s[0])*float64(s[0]) +
		float64(s[1])*float64(s[1]) +
		float64(s[2])*float64(s[2]))
}

// Union returns the smallest box containing both b and other. A zero
// box acts as the identity so unions can start from the zero value.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if b.IsZero() {
		return other
	}
	if other.IsZero() {
		return b
	}
	out := b
	for i := 0; i < 3; i++ {
		if other.Min[i] < out.Min[i] {
			out.Min[i] = other.Min[i]
		}
		if other.Max[i] > out.Max[i] {
			out.Max[i] = other.Max[i]
		}
	}
	return out
}

// Contains reports whether p lies inside or on the boundary of the
// box.
func (b BoundingBox) Contains(p f32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether the box is the zero value.
func (b BoundingBox) IsZero() bool {
	return b.Min == (f32.Vec3{}) && b.Max == (f32.Vec3{})
}
