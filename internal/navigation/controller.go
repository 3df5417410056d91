// Package navigation sequences the application: waiting for the user to be
// in range, the dwell-driven exercise menu and the active routine.
package navigation

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/exercise"
	"github.com/ayusman/abhyasa/internal/gesture"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// Mode is the top-level navigation state.
type Mode string

const (
	ModeAwaitDistance Mode = "await-distance"
	ModeMenu          Mode = "menu"
	ModeExercise      Mode = "exercise"
)

// requiredJoints must be Tracked for anything but AwaitDistance.
var requiredJoints = []skeleton.JointType{skeleton.Head, skeleton.HandLeft, skeleton.HandRight}

// State is a snapshot of the controller.
type State struct {
	Mode        Mode           `json:"mode"`
	Selection   int            `json:"selection"`
	Exercise    exercise.ID    `json:"exercise,omitempty"`
	Phase       exercise.Phase `json:"phase,omitempty"`
	Run         string         `json:"run,omitempty"`
	Repetitions int            `json:"repetitions"`
}

// Output is the result of one tick.
type Output struct {
	Cues   cue.Frame
	Events []Event
}

// Controller owns the navigation state machine. It is not safe for
// concurrent use; one goroutine ticks it.
type Controller struct {
	proj    cue.Projector
	catalog []exercise.Entry
	newRun  func() string

	mode      Mode
	selection int // 1-based index into catalog
	routine   exercise.Routine
	run       string

	menu gesture.DwellSelector
	home gesture.DwellSelector
}

// Option configures a Controller.
type Option func(*Controller)

// WithCatalog replaces the default routine catalog. An empty catalog keeps
// the default.
func WithCatalog(entries []exercise.Entry) Option {
	return func(c *Controller) { c.catalog = entries }
}

// WithRunID sets the run id generator.
func WithRunID(fn func() string) Option {
	return func(c *Controller) { c.newRun = fn }
}

// New creates a controller waiting for the user to step into range.
func New(proj cue.Projector, opts ...Option) *Controller {
	c := &Controller{
		proj:      proj,
		catalog:   exercise.Catalog(),
		newRun:    uuid.NewString,
		mode:      ModeAwaitDistance,
		selection: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.catalog) == 0 {
		c.catalog = exercise.Catalog()
	}
	return c
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	s := State{Mode: c.mode, Selection: c.selection, Run: c.run}
	if c.routine != nil {
		s.Exercise = c.routine.ID()
		s.Phase = c.routine.Phase()
		s.Repetitions = c.routine.Repetitions()
	}
	return s
}

// Selected returns the catalog entry under the menu cursor.
func (c *Controller) Selected() exercise.Entry {
	return c.catalog[c.selection-1]
}

// Tick advances the state machine by one frame. now is the frame time and
// drives every dwell timer.
func (c *Controller) Tick(f *skeleton.Frame, cfg config.Session, now time.Time) Output {
	var out Output
	out.Cues.Timestamp = now.UnixMilli()
	out.Cues.Target = cfg.TargetRepetitions

	if !f.IsTracked(requiredJoints...) {
		if c.mode != ModeAwaitDistance {
			if c.mode == ModeExercise {
				out.Events = append(out.Events, c.event(EventExerciseCancelled, cfg, now))
			}
			out.Events = append(out.Events, c.event(EventTrackingLost, cfg, now))
			c.toMenu()
			c.mode = ModeAwaitDistance
		}
		out.Cues.Mode = string(c.mode)
		out.Cues.Message = cue.MsgStepBack
		return out
	}

	if c.mode == ModeAwaitDistance {
		c.mode = ModeMenu
		out.Events = append(out.Events, c.event(EventTrackingAcquired, cfg, now))
	}

	switch c.mode {
	case ModeMenu:
		c.tickMenu(f, cfg, now, &out)
	case ModeExercise:
		c.tickExercise(f, cfg, now, &out)
	}

	out.Cues.Mode = string(c.mode)
	if c.routine != nil {
		out.Cues.Exercise = string(c.routine.ID())
		out.Cues.Phase = string(c.routine.Phase())
		out.Cues.Repetitions = c.routine.Repetitions()
	}
	return out
}

func (c *Controller) tickMenu(f *skeleton.Frame, cfg config.Session, now time.Time, out *Output) {
	zones := MenuZones(f, c.proj)
	d := c.menu.Update(zones, handPoints(f, c.proj), now, cfg.DwellDuration)

	n := len(c.catalog)
	switch d.Confirmed {
	case ZonePrevious:
		c.selection = (c.selection+n-2)%n + 1
		out.Events = append(out.Events, c.event(EventSelectionChanged, cfg, now))
	case ZoneNext:
		c.selection = c.selection%n + 1
		out.Events = append(out.Events, c.event(EventSelectionChanged, cfg, now))
	case ZoneConfirm:
		c.start(cfg, now, out)
		return
	}

	progress := func(id gesture.ZoneID) float64 {
		if d.Hovered == id {
			return d.Progress
		}
		return 0
	}
	out.Cues.Message = cue.MsgChooseExercise
	out.Cues.AddIcon(cue.IconArrowLeft, zones[0].Center, progress(ZonePrevious), false)
	out.Cues.AddIcon(cue.IconArrowRight, zones[1].Center, progress(ZoneNext), false)
	out.Cues.AddIcon(c.Selected().Icon, zones[2].Center, progress(ZoneConfirm), true)
}

func (c *Controller) start(cfg config.Session, now time.Time, out *Output) {
	c.menu.Reset()
	c.home.Reset()
	c.routine = c.Selected().New()
	c.run = c.newRun()
	c.mode = ModeExercise
	out.Events = append(out.Events, c.event(EventExerciseStarted, cfg, now))
}

func (c *Controller) tickExercise(f *skeleton.Frame, cfg config.Session, now time.Time, out *Output) {
	home := HomeZone(f, c.proj)
	d := c.home.Update([]gesture.Zone{home}, handPoints(f, c.proj), now, cfg.DwellDuration)
	if d.Confirmed == ZoneHome {
		out.Events = append(out.Events, c.event(EventExerciseCancelled, cfg, now))
		c.toMenu()
		return
	}
	out.Cues.AddIcon(cue.IconHome, home.Center, d.Progress, false)

	s := c.routine.Step(&exercise.Tick{
		Frame:     f,
		Config:    cfg,
		Now:       now,
		Projector: c.proj,
		Cues:      &out.Cues,
	})
	if s.Broken {
		out.Events = append(out.Events, c.event(EventRepetitionBroken, cfg, now))
	}
	if s.Repetition {
		out.Events = append(out.Events, c.event(EventRepetition, cfg, now))
	}
	if s.Complete {
		out.Events = append(out.Events, c.event(EventExerciseCompleted, cfg, now))
		out.Cues.Repetitions = c.routine.Repetitions()
		c.toMenu()
		out.Cues.Message = cue.MsgExerciseComplete
	}
}

// ResetDwell drops any menu or home hover in progress, so a hand that is
// already in a zone has to dwell again from the next tick.
func (c *Controller) ResetDwell() {
	c.menu.Reset()
	c.home.Reset()
}

// toMenu discards the routine and both selectors.
func (c *Controller) toMenu() {
	c.routine = nil
	c.run = ""
	c.menu.Reset()
	c.home.Reset()
	c.mode = ModeMenu
}

func (c *Controller) event(t EventType, cfg config.Session, now time.Time) Event {
	e := Event{
		Type:      t,
		Run:       c.run,
		Target:    cfg.TargetRepetitions,
		Selection: c.selection,
		Time:      now,
	}
	if c.routine != nil {
		e.Exercise = c.routine.ID()
		e.Repetitions = c.routine.Repetitions()
	}
	return e
}
