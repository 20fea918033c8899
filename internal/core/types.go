package core

import "math"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns W*H.
func (s Size) Cells() int { return s.W * s.H }

// Contains reports whether the continuous point p lies inside [0,W)x[0,H).
func (s Size) Contains(p Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(s.W) && p.Y < float64(s.H)
}

// Vec2 is a continuous world coordinate. Cell (x, y) covers [x,x+1)x[y,y+1).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// Len returns the Euclidean norm.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Cell returns the grid cell containing v.
func (v Vec2) Cell() (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}

// Finite reports whether both components are finite numbers.
func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Heading returns the unit vector for angle a (radians, y axis pointing down).
func Heading(a float64) Vec2 {
	s, c := math.Sincos(a)
	return Vec2{X: c, Y: s}
}

// CellCenter returns the continuous center of cell (x, y).
func CellCenter(x, y int) Vec2 {
	return Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}
