// Package skeleton defines the per-frame body joint model delivered by the frame source.
package skeleton

import (
	"time"

	"github.com/golang/geo/r3"
)

// JointType identifies a tracked body landmark.
type JointType int

// Joint indices following the sensor's skeleton convention.
const (
	HipCenter JointType = iota
	Spine
	ShoulderCenter
	Head
	ShoulderLeft
	ElbowLeft
	WristLeft
	HandLeft
	ShoulderRight
	ElbowRight
	WristRight
	HandRight
	HipLeft
	KneeLeft
	AnkleLeft
	FootLeft
	HipRight
	KneeRight
	AnkleRight
	FootRight
	NumJoints
)

var jointNames = [NumJoints]string{
	HipCenter:      "HipCenter",
	Spine:          "Spine",
	ShoulderCenter: "ShoulderCenter",
	Head:           "Head",
	ShoulderLeft:   "ShoulderLeft",
	ElbowLeft:      "ElbowLeft",
	WristLeft:      "WristLeft",
	HandLeft:       "HandLeft",
	ShoulderRight:  "ShoulderRight",
	ElbowRight:     "ElbowRight",
	WristRight:     "WristRight",
	HandRight:      "HandRight",
	HipLeft:        "HipLeft",
	KneeLeft:       "KneeLeft",
	AnkleLeft:      "AnkleLeft",
	FootLeft:       "FootLeft",
	HipRight:       "HipRight",
	KneeRight:      "KneeRight",
	AnkleRight:     "AnkleRight",
	FootRight:      "FootRight",
}

// String returns the joint name, e.g. "HandLeft".
func (j JointType) String() string {
	if j < 0 || j >= NumJoints {
		return "Unknown"
	}
	return jointNames[j]
}

// ParseJointType looks up a joint by its name.
func ParseJointType(name string) (JointType, bool) {
	for i, n := range jointNames {
		if n == name {
			return JointType(i), true
		}
	}
	return 0, false
}

// Quality is the tracking quality the sensor reports for a single joint.
type Quality int

const (
	// NotTracked means the sensor has no position for the joint.
	NotTracked Quality = iota
	// Inferred means the position was estimated from neighbouring joints.
	Inferred
	// Tracked means the joint was observed directly.
	Tracked
)

var qualityNames = [...]string{"not-tracked", "inferred", "tracked"}

func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return "unknown"
	}
	return qualityNames[q]
}

// ParseQuality parses the names produced by Quality.String.
func ParseQuality(s string) (Quality, bool) {
	for i, n := range qualityNames {
		if n == s {
			return Quality(i), true
		}
	}
	return NotTracked, false
}

// TrackingState is the overall tracking state of a skeleton.
type TrackingState int

const (
	SkeletonNotTracked TrackingState = iota
	SkeletonPositionOnly
	SkeletonTracked
)

var stateNames = [...]string{"not-tracked", "position-only", "tracked"}

func (s TrackingState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ParseTrackingState parses the names produced by TrackingState.String.
func ParseTrackingState(s string) (TrackingState, bool) {
	for i, n := range stateNames {
		if n == s {
			return TrackingState(i), true
		}
	}
	return SkeletonNotTracked, false
}

// Edges is a bit set of the view edges that clip the skeleton.
type Edges uint8

const (
	EdgeBottom Edges = 1 << iota
	EdgeTop
	EdgeLeft
	EdgeRight
)

// Has reports whether e includes every edge in other.
func (e Edges) Has(other Edges) bool {
	return e&other == other
}

// Joint is one joint sample: position in meters plus quality.
type Joint struct {
	Position r3.Vector
	Quality  Quality
}

// Frame is a snapshot of a single skeleton for one sensor tick.
// A zero Frame is an empty frame: no skeleton this tick.
type Frame struct {
	Joints       [NumJoints]Joint
	State        TrackingState
	Position     r3.Vector // skeleton center, valid for position-only skeletons
	ClippedEdges Edges
	Timestamp    time.Time
}

// Empty reports whether the frame carries no skeleton.
func (f *Frame) Empty() bool {
	return f == nil || f.State == SkeletonNotTracked
}

// Joint returns the sample for joint t.
func (f *Frame) Joint(t JointType) Joint {
	return f.Joints[t]
}

// Pos returns the position of joint t.
func (f *Frame) Pos(t JointType) r3.Vector {
	return f.Joints[t].Position
}

// IsTracked reports whether the skeleton and every listed joint are Tracked.
func (f *Frame) IsTracked(joints ...JointType) bool {
	if f.Empty() || f.State != SkeletonTracked {
		return false
	}
	for _, j := range joints {
		if f.Joints[j].Quality != Tracked {
			return false
		}
	}
	return true
}

// TorsoLength is the vertical distance from hip center to shoulder center.
func (f *Frame) TorsoLength() float64 {
	return f.Pos(ShoulderCenter).Y - f.Pos(HipCenter).Y
}

// Bone is a pair of joints drawn as a segment.
type Bone struct {
	From, To JointType
}

// Bones lists the segments of the skeleton: torso, arms, legs.
var Bones = []Bone{
	{Head, ShoulderCenter},
	{ShoulderCenter, ShoulderLeft},
	{ShoulderCenter, ShoulderRight},
	{ShoulderCenter, Spine},
	{Spine, HipCenter},
	{HipCenter, HipLeft},
	{HipCenter, HipRight},

	{ShoulderLeft, ElbowLeft},
	{ElbowLeft, WristLeft},
	{WristLeft, HandLeft},

	{ShoulderRight, ElbowRight},
	{ElbowRight, WristRight},
	{WristRight, HandRight},

	{HipLeft, KneeLeft},
	{KneeLeft, AnkleLeft},
	{AnkleLeft, FootLeft},

	{HipRight, KneeRight},
	{KneeRight, AnkleRight},
	{AnkleRight, FootRight},
}
