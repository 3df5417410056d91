package gesture

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"

	"github.com/ayusman/abhyasa/internal/skeleton"
)

func TestCheckHandsUp(t *testing.T) {
	tests := []struct {
		name        string
		frame       skeleton.Frame
		left, right bool
	}{
		{"hands up", skeleton.HandsUp(), true, true},
		{"standing", skeleton.Standing(), false, false},
		{"left hand low", skeleton.HandsUp().Moved(skeleton.HandLeft, r3.Vector{Y: -0.2}), false, true},
		{"right hand wide", skeleton.HandsUp().Moved(skeleton.HandRight, r3.Vector{X: 0.15}), true, false},
		{"inferred hand", skeleton.HandsUp().WithQuality(skeleton.HandLeft, skeleton.Inferred), false, true},
		{"not tracked hand", skeleton.HandsUp().WithQuality(skeleton.HandRight, skeleton.NotTracked), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckHandsUp(&tt.frame)
			assert.Equal(t, tt.left, res.Left, "left")
			assert.Equal(t, tt.right, res.Right, "right")
			assert.Equal(t, tt.left && tt.right, res.Both())
		})
	}
}

func TestHandsUpTargets(t *testing.T) {
	f := skeleton.HandsUp()
	l, r := HandsUpTargets(&f)

	assert.InDelta(t, -0.30, l.X, 1e-9)
	assert.InDelta(t, 0.30, r.X, 1e-9)
	assert.InDelta(t, 0.60, l.Y, 1e-9)
	assert.InDelta(t, 0.60, r.Y, 1e-9)
}

func TestCheckPose_DepthIgnored(t *testing.T) {
	f := skeleton.HandsUp().Moved(skeleton.HandLeft, r3.Vector{Z: -0.5})
	res := CheckHandsUp(&f)
	assert.True(t, res.Left)
}

func TestCheckPose_EmptyFrame(t *testing.T) {
	var f skeleton.Frame
	res := CheckPose(&f, r3.Vector{}, r3.Vector{}, 10)
	assert.False(t, res.Left)
	assert.False(t, res.Right)

	res = CheckPose(nil, r3.Vector{}, r3.Vector{}, 10)
	assert.False(t, res.Both())
}

func TestCheckExtendedArms(t *testing.T) {
	f := skeleton.ArmsExtended()
	l, r := ExtendedArmsTargets(&f)
	assert.InDelta(t, -0.78, l.X, 1e-9)
	assert.InDelta(t, 0.78, r.X, 1e-9)
	assert.InDelta(t, 0.36, l.Y, 1e-9)

	assert.True(t, CheckExtendedArms(&f, 0.2).Both())

	s := skeleton.Standing()
	assert.False(t, CheckExtendedArms(&s, 0.2).Both())

	t.Run("margin widens radius", func(t *testing.T) {
		// 0.12 off target: outside 0.11*1.0, inside 0.11*1.2.
		off := skeleton.ArmsExtended().Moved(skeleton.HandLeft, r3.Vector{Y: -0.12})
		assert.False(t, CheckExtendedArms(&off, 0).Left)
		assert.True(t, CheckExtendedArms(&off, 0.2).Left)
	})
}

func TestHandsAboveReference(t *testing.T) {
	up := skeleton.HandsUp()
	assert.True(t, HandsAboveReference(&up, 0.2))

	// head 0.60, hip -0.10: reference at 0.60 - 0.2*0.70 = 0.46
	assert.InDelta(t, 0.46, ReferenceHeight(&up, 0.2), 1e-9)

	low := up.WithPosition(skeleton.HandRight, r3.Vector{X: 0.30, Y: 0.40, Z: skeleton.PresetDepth})
	assert.False(t, HandsAboveReference(&low, 0.2))

	st := skeleton.Standing()
	assert.False(t, HandsAboveReference(&st, 0.2))
}

func TestHandsBelowHips(t *testing.T) {
	st := skeleton.Standing()
	assert.True(t, HandsBelowHips(&st))

	up := skeleton.HandsUp()
	assert.False(t, HandsBelowHips(&up))

	var empty skeleton.Frame
	assert.False(t, HandsBelowHips(&empty))
}
