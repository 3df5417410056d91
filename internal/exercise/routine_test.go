package exercise

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

var t0 = time.Unix(1700000000, 0)

func step(r Routine, f skeleton.Frame, cfg config.Session, now time.Time) (Step, cue.Frame) {
	var cues cue.Frame
	s := r.Step(&Tick{
		Frame:     &f,
		Config:    cfg,
		Now:       now,
		Projector: cue.DefaultPinhole,
		Cues:      &cues,
	})
	return s, cues
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 2)
	assert.Equal(t, RaiseHandsID, c[0].ID)
	assert.Equal(t, HoldArmsID, c[1].ID)
	assert.Equal(t, RaiseHandsID, c[0].New().ID())
	assert.Equal(t, HoldArmsID, c[1].New().ID())

	e, ok := Lookup(HoldArmsID)
	assert.True(t, ok)
	assert.Equal(t, cue.IconExercise2, e.Icon)

	_, ok = Lookup("yoga")
	assert.False(t, ok)
}

func TestRaiseHands_Repetition(t *testing.T) {
	cfg := config.DefaultSession()
	r := NewRaiseHands()

	s, cues := step(r, skeleton.Standing(), cfg, t0)
	assert.Equal(t, Step{}, s)
	assert.Equal(t, PhaseAwaitPose, r.Phase())
	assert.Equal(t, cue.MsgHoldHandsUp, cues.Message)
	require.Len(t, cues.Markers, 2)
	assert.Equal(t, cue.NotAchieved, cues.Markers[0].State)

	_, cues = step(r, skeleton.HandsUp(), cfg, t0)
	assert.Equal(t, PhaseAwaitGesture, r.Phase())
	assert.Equal(t, cue.Achieved, cues.Markers[0].State)

	s, cues = step(r, skeleton.HandsRaised(0.15), cfg, t0)
	assert.Equal(t, Step{}, s)
	assert.Equal(t, cue.MsgRaiseHands, cues.Message)
	require.Len(t, cues.Arrows, 2)
	assert.Equal(t, cue.NotAchieved, cues.Arrows[0].State)
	assert.Less(t, cues.Arrows[0].To.Y, cues.Arrows[0].From.Y, "arrow points up")

	s, cues = step(r, skeleton.HandsRaised(0.35), cfg, t0)
	assert.True(t, s.Repetition)
	assert.False(t, s.Complete)
	assert.Equal(t, 1, r.Repetitions())
	assert.Equal(t, PhaseAwaitPose, r.Phase())
	assert.Equal(t, cue.MsgGestureDone, cues.Message)
}

func TestRaiseHands_Broken(t *testing.T) {
	cfg := config.DefaultSession()
	r := NewRaiseHands()

	step(r, skeleton.HandsUp(), cfg, t0)
	require.Equal(t, PhaseAwaitGesture, r.Phase())

	dropped := skeleton.HandsUp().Moved(skeleton.HandLeft, r3.Vector{Y: -0.5})
	s, cues := step(r, dropped, cfg, t0)
	assert.True(t, s.Broken)
	assert.Equal(t, PhaseAwaitPose, r.Phase())
	assert.Equal(t, 0, r.Repetitions())
	assert.Equal(t, cue.MsgGestureBroken, cues.Message)
}

func TestRaiseHands_BrokenKeepsCount(t *testing.T) {
	cfg := config.DefaultSession()
	r := NewRaiseHands()

	step(r, skeleton.HandsUp(), cfg, t0)
	step(r, skeleton.HandsRaised(0.35), cfg, t0)
	require.Equal(t, 1, r.Repetitions())

	step(r, skeleton.HandsUp(), cfg, t0)
	s, _ := step(r, skeleton.Standing(), cfg, t0)
	assert.True(t, s.Broken)
	assert.Equal(t, 1, r.Repetitions())
}

func TestRaiseHands_Complete(t *testing.T) {
	cfg := config.DefaultSession()
	cfg.SetTargetRepetitions(3)
	r := NewRaiseHands()

	var last Step
	for i := 0; i < 3; i++ {
		step(r, skeleton.HandsUp(), cfg, t0)
		last, _ = step(r, skeleton.HandsRaised(0.35), cfg, t0)
		require.True(t, last.Repetition, "repetition %d", i+1)
	}
	assert.True(t, last.Complete)
	assert.Equal(t, 3, r.Repetitions())
}

func TestHoldArms_Repetition(t *testing.T) {
	cfg := config.DefaultSession()
	h := NewHoldArms()

	_, cues := step(h, skeleton.Standing(), cfg, t0)
	assert.Equal(t, PhaseAwaitHold, h.Phase())
	assert.Equal(t, cue.MsgRelaxArms, cues.Message)

	s, cues := step(h, skeleton.Standing(), cfg, t0)
	assert.Equal(t, Step{}, s)
	assert.Equal(t, cue.MsgExtendArms, cues.Message)
	require.Len(t, cues.Markers, 2)

	_, cues = step(h, skeleton.ArmsExtended(), cfg, t0)
	assert.Equal(t, cue.MsgHoldPose, cues.Message)

	_, cues = step(h, skeleton.ArmsExtended(), cfg, t0.Add(1500*time.Millisecond))
	assert.InDelta(t, 0.5, cues.Progress, 1e-9)

	s, cues = step(h, skeleton.ArmsExtended(), cfg, t0.Add(cfg.DwellDuration-time.Millisecond))
	assert.False(t, s.Repetition)

	s, cues = step(h, skeleton.ArmsExtended(), cfg, t0.Add(cfg.DwellDuration))
	assert.True(t, s.Repetition)
	assert.Equal(t, 1, h.Repetitions())
	assert.Equal(t, PhaseAwaitRelaxed, h.Phase())
	assert.Equal(t, cue.MsgRelaxArms, cues.Message)
}

func TestHoldArms_Broken(t *testing.T) {
	cfg := config.DefaultSession()
	h := NewHoldArms()

	step(h, skeleton.Standing(), cfg, t0)
	step(h, skeleton.ArmsExtended(), cfg, t0)

	s, cues := step(h, skeleton.Standing(), cfg, t0.Add(2*time.Second))
	assert.True(t, s.Broken)
	assert.Equal(t, PhaseAwaitRelaxed, h.Phase())
	assert.Equal(t, cue.MsgPoseBroken, cues.Message)
	assert.Equal(t, 0, h.Repetitions())

	// relax, extend again: the timer starts over
	step(h, skeleton.Standing(), cfg, t0.Add(3*time.Second))
	step(h, skeleton.ArmsExtended(), cfg, t0.Add(4*time.Second))
	s, _ = step(h, skeleton.ArmsExtended(), cfg, t0.Add(6*time.Second))
	assert.False(t, s.Repetition)
	s, _ = step(h, skeleton.ArmsExtended(), cfg, t0.Add(7*time.Second))
	assert.True(t, s.Repetition)
}

func TestHoldArms_UntrackedHandNeverHolds(t *testing.T) {
	cfg := config.DefaultSession()
	h := NewHoldArms()

	step(h, skeleton.Standing(), cfg, t0)
	f := skeleton.ArmsExtended().WithQuality(skeleton.HandRight, skeleton.Inferred)
	for i := 0; i < 5; i++ {
		s, _ := step(h, f, cfg, t0.Add(time.Duration(i)*time.Second))
		assert.False(t, s.Repetition)
		assert.False(t, s.Broken)
	}
	assert.Equal(t, PhaseAwaitHold, h.Phase())
}
