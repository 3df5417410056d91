package app

import (
	"context"
	"errors"
	"io"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/log"
	"github.com/ayusman/abhyasa/internal/navigation"
	"github.com/ayusman/abhyasa/internal/plugin"
	"github.com/ayusman/abhyasa/internal/skeleton"
	"github.com/ayusman/abhyasa/internal/source"
)

// run reads frames until the source is exhausted, fails or ctx is
// cancelled. One frame is processed to completion before the next is read.
// Lines that do not decode are skipped.
func (a *App) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		c, err := a.config.Source.Next(ctx)
		if errors.Is(err, source.ErrMalformedFrame) {
			log.Warn("skipping frame", "err", err)
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info("source exhausted")
			case ctx.Err() != nil, errors.Is(err, source.ErrSourceClosed):
			default:
				log.Error("error reading frame", "err", err)
				a.mu.Lock()
				a.err = err
				a.mu.Unlock()
			}
			return
		}
		a.process(c)
	}
}

// process runs one navigation tick and fans its output out to the sinks.
func (a *App) process(c *source.Capture) {
	if c.Color != nil {
		defer c.Color.Close()
	}
	a.mu.Lock()
	enabled, resumed := a.enabled, a.resumed
	a.resumed = false
	a.mu.Unlock()
	if !enabled {
		return
	}
	if resumed {
		a.controller.ResetDwell()
	}

	f := &c.Skeleton
	now := f.Timestamp
	if now.IsZero() {
		now = a.now()
	}

	prev := a.controller.State()
	out := a.controller.Tick(f, a.config.Session.Snapshot(), now)
	st := a.controller.State()
	if st.Mode != prev.Mode {
		log.Info("mode changed", "from", prev.Mode, "to", st.Mode)
	}

	a.mu.Lock()
	a.state = st
	onTick, onEvent := a.onTick, a.onEvent
	a.mu.Unlock()

	for _, e := range out.Events {
		a.publish(e)
		if onEvent != nil {
			onEvent(e)
		}
	}

	if a.config.Cues != nil {
		a.config.Cues.Broadcast(out.Cues)
	}
	a.render(c.Color, f, &out.Cues)

	if onTick != nil {
		onTick(st)
	}
}

// publish logs e and queues it for subscribed hooks.
func (a *App) publish(e navigation.Event) {
	logger := log.With("run", e.Run, "exercise", e.Exercise, "reps", e.Repetitions)
	switch e.Type {
	case navigation.EventRepetitionBroken, navigation.EventExerciseCancelled, navigation.EventTrackingLost:
		logger.Warn(string(e.Type), "target", e.Target)
	default:
		logger.Info(string(e.Type), "target", e.Target, "selection", e.Selection)
	}

	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Notify(plugin.Request{
		Event:       string(e.Type),
		Exercise:    string(e.Exercise),
		Run:         e.Run,
		Repetitions: e.Repetitions,
		Target:      e.Target,
		Lang:        a.config.Lang,
		Time:        e.Time,
	})
}

// render draws the tick over the source color image, the camera image, or
// a blank canvas, in that order of preference.
func (a *App) render(img *gocv.Mat, f *skeleton.Frame, cues *cue.Frame) {
	if a.config.Overlay == nil {
		return
	}
	if img == nil && a.config.Camera != nil && a.config.Camera.IsOpen() {
		m, err := a.config.Camera.ReadFrame()
		if err != nil {
			log.Debug("camera frame unavailable", "err", err)
		} else {
			defer m.Close()
			img = m
		}
	}
	if err := a.config.Overlay.Render(img, f, a.config.Source.Projector(), cues); err != nil {
		log.Warn("overlay render failed", "err", err)
	}
}
