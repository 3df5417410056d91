package cue

import "github.com/golang/geo/r3"

// Render surface size and the depth camera focal length in pixels.
const (
	Width        = 640
	Height       = 480
	DefaultFocal = 571.26
)

// Pinhole projects sensor space onto the render surface through a pinhole
// camera at the origin looking down +Z.
type Pinhole struct {
	Focal         float64
	Width, Height float64
}

// DefaultPinhole matches the depth camera at 640x480.
var DefaultPinhole = Pinhole{Focal: DefaultFocal, Width: Width, Height: Height}

// Project maps p to render space. Points at or behind the sensor plane map
// to the image center.
func (c Pinhole) Project(p r3.Vector) Point {
	cx, cy := c.Width/2, c.Height/2
	if p.Z <= 0 {
		return Point{X: cx, Y: cy}
	}
	return Point{
		X: cx + p.X*c.Focal/p.Z,
		Y: cy - p.Y*c.Focal/p.Z,
	}
}

// Radius returns the on-screen size of a metric radius r around p.
func Radius(proj Projector, p r3.Vector, r float64) float64 {
	a := proj.Project(p)
	b := proj.Project(r3.Vector{X: p.X + r, Y: p.Y, Z: p.Z})
	d := b.X - a.X
	if d < 0 {
		d = -d
	}
	return d
}
