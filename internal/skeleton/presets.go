package skeleton

import (
	"time"

	"github.com/golang/geo/r3"
)

// PresetDepth is the distance from the sensor used by the preset skeletons.
const PresetDepth = 2.5

// Standing returns a fully tracked adult standing PresetDepth meters from the
// sensor with both arms hanging relaxed. The user's left side is at negative X.
func Standing() Frame {
	f := Frame{
		State:    SkeletonTracked,
		Position: r3.Vector{X: 0, Y: 0.05, Z: PresetDepth},
	}

	set := func(j JointType, x, y float64) {
		f.Joints[j] = Joint{Position: r3.Vector{X: x, Y: y, Z: PresetDepth}, Quality: Tracked}
	}

	set(Head, 0, 0.60)
	set(ShoulderCenter, 0, 0.40)
	set(Spine, 0, 0.05)
	set(HipCenter, 0, -0.10)

	set(ShoulderLeft, -0.18, 0.36)
	set(ElbowLeft, -0.25, 0.10)
	set(WristLeft, -0.27, -0.12)
	set(HandLeft, -0.28, -0.20)

	set(ShoulderRight, 0.18, 0.36)
	set(ElbowRight, 0.25, 0.10)
	set(WristRight, 0.27, -0.12)
	set(HandRight, 0.28, -0.20)

	set(HipLeft, -0.10, -0.15)
	set(KneeLeft, -0.10, -0.55)
	set(AnkleLeft, -0.10, -0.95)
	set(FootLeft, -0.10, -1.00)

	set(HipRight, 0.10, -0.15)
	set(KneeRight, 0.10, -0.55)
	set(AnkleRight, 0.10, -0.95)
	set(FootRight, 0.10, -1.00)

	return f
}

// HandsUp returns Standing with the arms parallel to the floor and the
// forearms vertical, hands beside the head.
func HandsUp() Frame {
	f := Standing()
	f = f.WithPosition(ElbowLeft, r3.Vector{X: -0.30, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(WristLeft, r3.Vector{X: -0.30, Y: 0.52, Z: PresetDepth})
	f = f.WithPosition(HandLeft, r3.Vector{X: -0.30, Y: 0.60, Z: PresetDepth})
	f = f.WithPosition(ElbowRight, r3.Vector{X: 0.30, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(WristRight, r3.Vector{X: 0.30, Y: 0.52, Z: PresetDepth})
	f = f.WithPosition(HandRight, r3.Vector{X: 0.30, Y: 0.60, Z: PresetDepth})
	return f
}

// HandsRaised returns HandsUp with both hands and wrists lifted by dy meters.
func HandsRaised(dy float64) Frame {
	f := HandsUp()
	for _, j := range []JointType{WristLeft, HandLeft, WristRight, HandRight} {
		f = f.Moved(j, r3.Vector{Y: dy})
	}
	return f
}

// ArmsExtended returns Standing with both arms held out horizontally at
// shoulder height.
func ArmsExtended() Frame {
	f := Standing()
	f = f.WithPosition(ElbowLeft, r3.Vector{X: -0.48, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(WristLeft, r3.Vector{X: -0.72, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(HandLeft, r3.Vector{X: -0.78, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(ElbowRight, r3.Vector{X: 0.48, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(WristRight, r3.Vector{X: 0.72, Y: 0.36, Z: PresetDepth})
	f = f.WithPosition(HandRight, r3.Vector{X: 0.78, Y: 0.36, Z: PresetDepth})
	return f
}

// WithPosition returns a copy of f with joint j moved to p.
func (f Frame) WithPosition(j JointType, p r3.Vector) Frame {
	f.Joints[j].Position = p
	return f
}

// WithQuality returns a copy of f with joint j reporting quality q.
func (f Frame) WithQuality(j JointType, q Quality) Frame {
	f.Joints[j].Quality = q
	return f
}

// Moved returns a copy of f with joint j displaced by delta.
func (f Frame) Moved(j JointType, delta r3.Vector) Frame {
	f.Joints[j].Position = f.Joints[j].Position.Add(delta)
	return f
}

// At returns a copy of f stamped with t.
func (f Frame) At(t time.Time) Frame {
	f.Timestamp = t
	return f
}
