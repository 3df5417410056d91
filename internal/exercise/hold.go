package exercise

import (
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/gesture"
)

// HoldArms phases.
const (
	PhaseAwaitRelaxed Phase = "await-relaxed"
	PhaseAwaitHold    Phase = "await-hold"
)

const holdZone gesture.ZoneID = "hold"

// HoldArms asks for relaxed arms, then both arms stretched out sideways and
// held for the dwell duration.
type HoldArms struct {
	phase Phase
	count int
	hold  gesture.DwellSelector
}

// NewHoldArms returns the routine waiting for relaxed arms.
func NewHoldArms() *HoldArms {
	return &HoldArms{phase: PhaseAwaitRelaxed}
}

func (h *HoldArms) ID() ID           { return HoldArmsID }
func (h *HoldArms) Phase() Phase     { return h.phase }
func (h *HoldArms) Repetitions() int { return h.count }

// Step advances the routine by one frame.
func (h *HoldArms) Step(t *Tick) Step {
	f := t.Frame
	cfg := t.Config

	switch h.phase {
	case PhaseAwaitRelaxed:
		t.Cues.Message = cue.MsgRelaxArms
		if gesture.HandsBelowHips(f) {
			h.hold.Reset()
			h.phase = PhaseAwaitHold
		}
		return Step{}

	case PhaseAwaitHold:
		res := gesture.CheckExtendedArms(f, cfg.ErrorMargin)
		radius := gesture.LenientRadius(gesture.ExtendedArmsRadius, cfg.ErrorMargin)
		addTargetMarker(t, res.LeftTarget, radius, res.Left)
		addTargetMarker(t, res.RightTarget, radius, res.Right)

		if !res.Both() {
			if h.hold.State().Idle() {
				t.Cues.Message = cue.MsgExtendArms
				return Step{}
			}
			// no partial credit
			h.hold.Reset()
			h.phase = PhaseAwaitRelaxed
			t.Cues.Message = cue.MsgPoseBroken
			return Step{Broken: true}
		}

		d := h.hold.Observe([]gesture.ZoneID{holdZone}, t.Now, cfg.DwellDuration)
		t.Cues.Progress = d.Progress
		if d.Confirmed == holdZone {
			h.count++
			h.phase = PhaseAwaitRelaxed
			t.Cues.Message = cue.MsgRelaxArms
			return counted(h.count, cfg)
		}
		t.Cues.Message = cue.MsgHoldPose
	}
	return Step{}
}
