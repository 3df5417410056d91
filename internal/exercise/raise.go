package exercise

import (
	"github.com/golang/geo/r3"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/gesture"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// RaiseHands phases.
const (
	PhaseAwaitPose    Phase = "await-pose"
	PhaseAwaitGesture Phase = "await-gesture"
)

// RaiseHands asks for both hands beside the head, then a vertical raise of
// both hands past a threshold derived from the user's own proportions.
type RaiseHands struct {
	phase Phase
	count int
	acc   gesture.HandAccumulators
}

// NewRaiseHands returns the routine waiting for the starting pose.
func NewRaiseHands() *RaiseHands {
	return &RaiseHands{phase: PhaseAwaitPose}
}

func (r *RaiseHands) ID() ID           { return RaiseHandsID }
func (r *RaiseHands) Phase() Phase     { return r.phase }
func (r *RaiseHands) Repetitions() int { return r.count }

// Step advances the routine by one frame.
func (r *RaiseHands) Step(t *Tick) Step {
	f := t.Frame

	switch r.phase {
	case PhaseAwaitPose:
		res := gesture.CheckHandsUp(f)
		addTargetMarker(t, res.LeftTarget, gesture.HandsUpRadius, res.Left)
		addTargetMarker(t, res.RightTarget, gesture.HandsUpRadius, res.Right)
		t.Cues.Message = cue.MsgHoldHandsUp
		if res.Both() {
			r.acc.Reset(f)
			r.phase = PhaseAwaitGesture
		}
		return Step{}

	case PhaseAwaitGesture:
		res := gesture.CheckGesture(f, &r.acc, gesture.RaiseAnchorDistance(f), t.Config)
		r.addArrows(t, res)
		t.Cues.Message = cue.MsgRaiseHands

		if !gesture.HandsAboveReference(f, t.Config.ErrorMargin) {
			r.phase = PhaseAwaitPose
			t.Cues.Message = cue.MsgGestureBroken
			return Step{Broken: true}
		}
		if res.Both() {
			r.count++
			r.phase = PhaseAwaitPose
			t.Cues.Message = cue.MsgGestureDone
			return counted(r.count, t.Config)
		}
	}
	return Step{}
}

func (r *RaiseHands) addArrows(t *Tick, res gesture.GestureResult) {
	top := gesture.RaiseTargetHeight(t.Frame, t.Config.DifficultyFactor)
	for _, h := range []struct {
		joint skeleton.JointType
		ok    bool
	}{
		{skeleton.HandLeft, res.Left},
		{skeleton.HandRight, res.Right},
	} {
		from := t.Frame.Pos(h.joint)
		to := r3.Vector{X: from.X, Y: top, Z: from.Z}
		t.Cues.AddArrow(t.Projector.Project(from), t.Projector.Project(to), cue.StateOf(h.ok))
	}
}
