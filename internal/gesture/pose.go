// Package gesture recognizes poses, vertical hand gestures and dwell
// selections from skeleton frames.
package gesture

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/abhyasa/internal/skeleton"
)

const (
	// HandsUpRadius is the tolerance in meters around each hands-up target.
	HandsUpRadius = 0.11
	// ExtendedArmsRadius is the base tolerance of the extended-arms pose,
	// widened by the error margin.
	ExtendedArmsRadius = 0.11
	// ExtendedArmsReach is the outward distance of each hand from its
	// shoulder, in torso lengths.
	ExtendedArmsReach = 1.2
)

// PoseResult reports, per hand, whether it is in position and where its
// target is. Renderers use the targets directly as zone markers.
type PoseResult struct {
	Left        bool
	Right       bool
	LeftTarget  r3.Vector
	RightTarget r3.Vector
}

// Both reports whether both hands are in position.
func (r PoseResult) Both() bool {
	return r.Left && r.Right
}

// CheckPose tests both hands against their targets. A hand is in position
// only when it is Tracked and within radius of its target on both the X and
// Y axes. Depth is ignored.
func CheckPose(f *skeleton.Frame, left, right r3.Vector, radius float64) PoseResult {
	res := PoseResult{LeftTarget: left, RightTarget: right}
	if f.Empty() {
		return res
	}
	res.Left = inPosition(f.Joint(skeleton.HandLeft), left, radius)
	res.Right = inPosition(f.Joint(skeleton.HandRight), right, radius)
	return res
}

func inPosition(j skeleton.Joint, target r3.Vector, radius float64) bool {
	if j.Quality != skeleton.Tracked {
		return false
	}
	return math.Abs(j.Position.X-target.X) < radius &&
		math.Abs(j.Position.Y-target.Y) < radius
}

// LenientRadius widens radius by the error margin.
func LenientRadius(radius, margin float64) float64 {
	return radius * (1 + margin)
}

// HandsUpTargets places each hand beside the head, half the elbow spread
// away from it.
func HandsUpTargets(f *skeleton.Frame) (left, right r3.Vector) {
	head := f.Pos(skeleton.Head)
	half := (f.Pos(skeleton.ElbowLeft).X - f.Pos(skeleton.ElbowRight).X) / 2
	left = r3.Vector{X: head.X + half, Y: head.Y, Z: head.Z}
	right = r3.Vector{X: head.X - half, Y: head.Y, Z: head.Z}
	return left, right
}

// CheckHandsUp tests the hands-up pose with the fixed radius.
func CheckHandsUp(f *skeleton.Frame) PoseResult {
	l, r := HandsUpTargets(f)
	return CheckPose(f, l, r, HandsUpRadius)
}

// ExtendedArmsTargets places each hand ExtendedArmsReach torso lengths
// outward from its shoulder, at shoulder height.
func ExtendedArmsTargets(f *skeleton.Frame) (left, right r3.Vector) {
	reach := ExtendedArmsReach * f.TorsoLength()
	sl := f.Pos(skeleton.ShoulderLeft)
	sr := f.Pos(skeleton.ShoulderRight)
	left = r3.Vector{X: sl.X - reach, Y: sl.Y, Z: sl.Z}
	right = r3.Vector{X: sr.X + reach, Y: sr.Y, Z: sr.Z}
	return left, right
}

// CheckExtendedArms tests the extended-arms pose with the lenient radius.
func CheckExtendedArms(f *skeleton.Frame, margin float64) PoseResult {
	l, r := ExtendedArmsTargets(f)
	return CheckPose(f, l, r, LenientRadius(ExtendedArmsRadius, margin))
}

// ReferenceHeight is the height both hands must stay above while a raise
// gesture is in progress: the head lowered by margin times the head to hip
// distance.
func ReferenceHeight(f *skeleton.Frame, margin float64) float64 {
	head := f.Pos(skeleton.Head).Y
	return head - margin*(head-f.Pos(skeleton.HipCenter).Y)
}

// HandsAboveReference reports whether both hands are above ReferenceHeight.
func HandsAboveReference(f *skeleton.Frame, margin float64) bool {
	if f.Empty() {
		return false
	}
	ref := ReferenceHeight(f, margin)
	return f.Pos(skeleton.HandLeft).Y > ref && f.Pos(skeleton.HandRight).Y > ref
}

// HandsBelowHips reports whether both hands hang below the hip center.
func HandsBelowHips(f *skeleton.Frame) bool {
	if f.Empty() {
		return false
	}
	hip := f.Pos(skeleton.HipCenter).Y
	return f.Pos(skeleton.HandLeft).Y < hip && f.Pos(skeleton.HandRight).Y < hip
}
