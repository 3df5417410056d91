// Package cue describes the per-tick feedback handed to renderers: zone
// markers, motion arrows, icons and an instruction key. It holds data only.
package cue

import (
	"github.com/golang/geo/r3"
)

// State is the three-state color of a marker or arrow.
type State int

const (
	Waiting State = iota
	Achieved
	NotAchieved
)

var stateNames = [...]string{"waiting", "achieved", "not-achieved"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateOf maps a boolean achievement to Achieved or NotAchieved.
func StateOf(ok bool) State {
	if ok {
		return Achieved
	}
	return NotAchieved
}

// Point is a position in render space (640x480, origin top-left).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projector maps sensor-space positions to render space.
type Projector interface {
	Project(p r3.Vector) Point
}

// ProjectorFunc adapts a function to the Projector interface.
type ProjectorFunc func(p r3.Vector) Point

// Project calls f(p).
func (f ProjectorFunc) Project(p r3.Vector) Point {
	return f(p)
}

// Marker is a zone circle.
type Marker struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	State  State   `json:"state"`
}

// Arrow is a motion cue from a hand to where it must travel.
type Arrow struct {
	From  Point `json:"from"`
	To    Point `json:"to"`
	State State `json:"state"`
}

// Icon names a drawable resource.
type Icon string

const (
	IconHome       Icon = "home"
	IconExercise1  Icon = "exercise-1"
	IconExercise2  Icon = "exercise-2"
	IconArrowLeft  Icon = "arrow-left"
	IconArrowRight Icon = "arrow-right"
	IconArrowUp    Icon = "arrow-up"
)

// Placement positions an icon. Progress is the dwell progress in [0,1].
type Placement struct {
	Icon     Icon    `json:"icon"`
	Center   Point   `json:"center"`
	Progress float64 `json:"progress"`
	Selected bool    `json:"selected,omitempty"`
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	Mode        string      `json:"mode"`
	Exercise    string      `json:"exercise,omitempty"`
	Phase       string      `json:"phase,omitempty"`
	Message     Message     `json:"message"`
	Repetitions int         `json:"repetitions"`
	Target      int         `json:"target"`
	Progress    float64     `json:"progress,omitempty"`
	Markers     []Marker    `json:"markers,omitempty"`
	Arrows      []Arrow     `json:"arrows,omitempty"`
	Icons       []Placement `json:"icons,omitempty"`
	Timestamp   int64       `json:"ts"`
}

// AddMarker appends a zone circle.
func (f *Frame) AddMarker(center Point, radius float64, s State) {
	f.Markers = append(f.Markers, Marker{Center: center, Radius: radius, State: s})
}

// AddArrow appends a motion arrow.
func (f *Frame) AddArrow(from, to Point, s State) {
	f.Arrows = append(f.Arrows, Arrow{From: from, To: to, State: s})
}

// AddIcon appends an icon placement.
func (f *Frame) AddIcon(icon Icon, center Point, progress float64, selected bool) {
	f.Icons = append(f.Icons, Placement{Icon: icon, Center: center, Progress: progress, Selected: selected})
}
