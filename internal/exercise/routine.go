// Package exercise implements the guided routines: each one alternates a
// preparation pose with a gesture or a timed hold and counts repetitions.
package exercise

import (
	"time"

	"github.com/golang/geo/r3"

	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// ID identifies a routine in the catalog.
type ID string

const (
	RaiseHandsID ID = "raise-hands"
	HoldArmsID   ID = "hold-arms"
)

// Phase is a routine sub-state, reported in cues and state snapshots.
type Phase string

// Tick carries everything a routine needs to advance by one frame. Routines
// append their cues to Cues.
type Tick struct {
	Frame     *skeleton.Frame
	Config    config.Session
	Now       time.Time
	Projector cue.Projector
	Cues      *cue.Frame
}

// Step is the outcome of one routine tick.
type Step struct {
	Repetition bool // a repetition was counted
	Broken     bool // the attempt in progress was abandoned
	Complete   bool // the target repetition count was reached
}

// Routine is a stateful exercise. A routine is created on menu confirmation
// and discarded when it completes or is cancelled.
type Routine interface {
	ID() ID
	Phase() Phase
	Repetitions() int
	Step(t *Tick) Step
}

// Entry is a catalog item.
type Entry struct {
	ID   ID
	Icon cue.Icon
	New  func() Routine
}

var catalog = []Entry{
	{ID: RaiseHandsID, Icon: cue.IconExercise1, New: func() Routine { return NewRaiseHands() }},
	{ID: HoldArmsID, Icon: cue.IconExercise2, New: func() Routine { return NewHoldArms() }},
}

// Catalog returns the routines in menu order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by id.
func Lookup(id ID) (Entry, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// counted reports the step for a finished repetition.
func counted(count int, cfg config.Session) Step {
	return Step{Repetition: true, Complete: count >= cfg.TargetRepetitions}
}

func addTargetMarker(t *Tick, target r3.Vector, radius float64, ok bool) {
	t.Cues.AddMarker(t.Projector.Project(target), cue.Radius(t.Projector, target, radius), cue.StateOf(ok))
}
