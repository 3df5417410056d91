package navigation

import (
	"time"

	"github.com/ayusman/abhyasa/internal/exercise"
)

// EventType names something that happened during a tick.
type EventType string

const (
	EventTrackingLost      EventType = "tracking-lost"
	EventTrackingAcquired  EventType = "tracking-acquired"
	EventSelectionChanged  EventType = "selection-changed"
	EventExerciseStarted   EventType = "exercise-started"
	EventRepetition        EventType = "repetition"
	EventRepetitionBroken  EventType = "repetition-broken"
	EventExerciseCompleted EventType = "exercise-completed"
	EventExerciseCancelled EventType = "exercise-cancelled"
)

// EventTypes lists every event type.
var EventTypes = []EventType{
	EventTrackingLost,
	EventTrackingAcquired,
	EventSelectionChanged,
	EventExerciseStarted,
	EventRepetition,
	EventRepetitionBroken,
	EventExerciseCompleted,
	EventExerciseCancelled,
}

// Event is emitted by Tick.
type Event struct {
	Type        EventType   `json:"type"`
	Exercise    exercise.ID `json:"exercise,omitempty"`
	Run         string      `json:"run,omitempty"`
	Repetitions int         `json:"repetitions"`
	Target      int         `json:"target"`
	Selection   int         `json:"selection,omitempty"`
	Time        time.Time   `json:"time"`
}
