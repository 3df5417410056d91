package navigation

import (
	"github.com/golang/geo/r3"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/gesture"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// Zone ids of the menu and home selectors.
const (
	ZonePrevious gesture.ZoneID = "previous"
	ZoneNext     gesture.ZoneID = "next"
	ZoneConfirm  gesture.ZoneID = "confirm"
	ZoneHome     gesture.ZoneID = "home"
)

// Zone placement in torso lengths, and zone half sizes in pixels. The
// confirm zone is wider and shorter than the lateral ones.
const (
	lateralReach  = 0.8
	lateralHeight = 0.5
	confirmHeight = 0.6
	homeHeight    = 0.3

	lateralHalfW = 40
	lateralHalfH = 55
	confirmHalfW = 90
	confirmHalfH = 35
	homeHalf     = 40
)

// MenuZones places the previous, next and confirm zones around the user:
// previous beside the left hip, next beside the right hip, confirm above
// the head.
func MenuZones(f *skeleton.Frame, proj cue.Projector) []gesture.Zone {
	torso := f.TorsoLength()
	sl := f.Pos(skeleton.ShoulderLeft)
	sr := f.Pos(skeleton.ShoulderRight)
	head := f.Pos(skeleton.Head)
	y := f.Pos(skeleton.HipCenter).Y + lateralHeight*torso

	left := r3.Vector{X: sl.X - lateralReach*torso, Y: y, Z: sl.Z}
	right := r3.Vector{X: sr.X + lateralReach*torso, Y: y, Z: sr.Z}
	up := r3.Vector{X: head.X, Y: head.Y + confirmHeight*torso, Z: head.Z}

	return []gesture.Zone{
		{ID: ZonePrevious, Center: proj.Project(left), HalfWidth: lateralHalfW, HalfHeight: lateralHalfH},
		{ID: ZoneNext, Center: proj.Project(right), HalfWidth: lateralHalfW, HalfHeight: lateralHalfH},
		{ID: ZoneConfirm, Center: proj.Project(up), HalfWidth: confirmHalfW, HalfHeight: confirmHalfH},
	}
}

// HomeZone sits above and outside the right shoulder, clear of the
// exercise poses.
func HomeZone(f *skeleton.Frame, proj cue.Projector) gesture.Zone {
	torso := f.TorsoLength()
	sr := f.Pos(skeleton.ShoulderRight)
	c := r3.Vector{
		X: sr.X + lateralReach*torso,
		Y: f.Pos(skeleton.Head).Y + homeHeight*torso,
		Z: sr.Z,
	}
	return gesture.Zone{ID: ZoneHome, Center: proj.Project(c), HalfWidth: homeHalf, HalfHeight: homeHalf}
}

func handPoints(f *skeleton.Frame, proj cue.Projector) []cue.Point {
	return []cue.Point{
		proj.Project(f.Pos(skeleton.HandLeft)),
		proj.Project(f.Pos(skeleton.HandRight)),
	}
}
