package sim

import "math"

// Vec is a 2D point or displacement in world units
type Vec struct {
	X float64
	Y float64
}

// Add returns v+o
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v*k
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Finite reports whether both components are neither NaN nor infinite
func (v Vec) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b Vec) float64 {
	return a.Sub(b).Len()
}

// Bounds is the fixed rectangular world, origin at (0,0)
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the middle of the world
func (b Bounds) Center() Vec {
	return Vec{X: b.Width / 2, Y: b.Height / 2}
}

// Clamp keeps p inside [margin, size-margin] on both axes
func (b Bounds) Clamp(p Vec, margin float64) Vec {
	return Vec{
		X: clamp(p.X, margin, b.Width-margin),
		Y: clamp(p.Y, margin, b.Height-margin),
	}
}

// RandomPoint returns a uniformly random point inside the world
func (b Bounds) RandomPoint(rng randSource) Vec {
	return Vec{X: rng.Float64() * b.Width, Y: rng.Float64() * b.Height}
}

// clamp bounds v to [min, max]; min wins when the range is inverted or v is NaN
func clamp(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	if v > max {
		v = max
	}
	if v < min {
		v = min
	}
	return v
}
