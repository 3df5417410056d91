package skeleton

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJointType_Names(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for j := JointType(0); j < NumJoints; j++ {
			parsed, ok := ParseJointType(j.String())
			require.True(t, ok, "joint %d", j)
			assert.Equal(t, j, parsed)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := ParseJointType("Tail")
		assert.False(t, ok)
		assert.Equal(t, "Unknown", JointType(99).String())
	})
}

func TestParseQualityAndState(t *testing.T) {
	q, ok := ParseQuality("inferred")
	require.True(t, ok)
	assert.Equal(t, Inferred, q)

	s, ok := ParseTrackingState("position-only")
	require.True(t, ok)
	assert.Equal(t, SkeletonPositionOnly, s)

	_, ok = ParseQuality("maybe")
	assert.False(t, ok)
}

func TestFrame_Empty(t *testing.T) {
	var nilFrame *Frame
	assert.True(t, nilFrame.Empty())

	var zero Frame
	assert.True(t, zero.Empty())

	f := Standing()
	assert.False(t, f.Empty())
}

func TestFrame_IsTracked(t *testing.T) {
	t.Run("all required joints tracked", func(t *testing.T) {
		f := Standing()
		assert.True(t, f.IsTracked(Head, HandLeft, HandRight))
	})

	t.Run("inferred hand fails", func(t *testing.T) {
		f := Standing().WithQuality(HandLeft, Inferred)
		assert.False(t, f.IsTracked(Head, HandLeft, HandRight))
		assert.True(t, f.IsTracked(Head, HandRight))
	})

	t.Run("position only skeleton fails", func(t *testing.T) {
		f := Standing()
		f.State = SkeletonPositionOnly
		assert.False(t, f.IsTracked(Head))
	})
}

func TestFrame_TorsoLength(t *testing.T) {
	f := Standing()
	assert.InDelta(t, 0.50, f.TorsoLength(), 1e-9)
}

func TestPresets(t *testing.T) {
	t.Run("relaxed hands below hips", func(t *testing.T) {
		f := Standing()
		assert.Less(t, f.Pos(HandLeft).Y, f.Pos(HipCenter).Y)
		assert.Less(t, f.Pos(HandRight).Y, f.Pos(HipCenter).Y)
	})

	t.Run("hands up beside head", func(t *testing.T) {
		f := HandsUp()
		assert.InDelta(t, f.Pos(Head).Y, f.Pos(HandLeft).Y, 1e-9)
		assert.Less(t, f.Pos(HandLeft).X, f.Pos(Head).X)
		assert.Greater(t, f.Pos(HandRight).X, f.Pos(Head).X)
	})

	t.Run("raised moves only hands and wrists", func(t *testing.T) {
		base := HandsUp()
		raised := HandsRaised(0.2)
		assert.InDelta(t, base.Pos(HandLeft).Y+0.2, raised.Pos(HandLeft).Y, 1e-9)
		assert.Equal(t, base.Pos(Head), raised.Pos(Head))
		assert.Equal(t, base.Pos(ElbowRight), raised.Pos(ElbowRight))
	})

	t.Run("copies do not alias", func(t *testing.T) {
		base := Standing()
		moved := base.Moved(Head, r3.Vector{Y: 1})
		assert.NotEqual(t, base.Pos(Head), moved.Pos(Head))
	})
}

func TestEdges_Has(t *testing.T) {
	e := EdgeBottom | EdgeLeft
	assert.True(t, e.Has(EdgeBottom))
	assert.True(t, e.Has(EdgeLeft))
	assert.False(t, e.Has(EdgeTop))
}
