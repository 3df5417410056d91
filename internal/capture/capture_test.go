package capture

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

func TestDeviceCamera_NotOpen(t *testing.T) {
	cam := NewCamera(0, true)
	assert.False(t, cam.IsOpen())

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)

	assert.NoError(t, cam.Close(), "closing a closed camera is a no-op")
}

func TestMockCamera(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := NewMockCamera(color.RGBA{R: 10, G: 20, B: 30, A: 255})

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)

	require.NoError(t, cam.Open())
	defer cam.Close()
	assert.True(t, cam.IsOpen())

	m, err := cam.ReadFrame()
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, Width, m.Cols())
	assert.Equal(t, Height, m.Rows())
	px := m.GetVecbAt(0, 0)
	assert.Equal(t, []uint8{30, 20, 10}, []uint8{px[0], px[1], px[2]}, "BGR order")
	assert.Equal(t, 1, cam.Reads())
}

func TestFit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	m := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	require.NoError(t, fit(&m))
	defer m.Close()
	assert.Equal(t, Width, m.Cols())
	assert.Equal(t, Height, m.Rows())
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Manten tus brazos", Fold("Mantén tus brazos"))
	assert.Equal(t, "Gesto completado!", Fold("¡Gesto completado!"))
	assert.Equal(t, "Alejate", Fold("Aléjate"))
}

func TestOverlay_Render(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV rendering in short mode")
	}

	o := NewOverlay(cue.DefaultLang)
	_, seq := o.Latest()
	assert.Zero(t, seq)

	f := skeleton.HandsUp().WithQuality(skeleton.ElbowLeft, skeleton.Inferred)
	f.ClippedEdges = skeleton.EdgeBottom | skeleton.EdgeRight

	var cues cue.Frame
	cues.Exercise = "raise-hands"
	cues.Target = 10
	cues.Repetitions = 3
	cues.Message = cue.MsgHoldHandsUp
	cues.Progress = 0.4
	cues.AddMarker(cue.Point{X: 200, Y: 100}, 25, cue.Achieved)
	cues.AddArrow(cue.Point{X: 250, Y: 300}, cue.Point{X: 250, Y: 100}, cue.NotAchieved)
	cues.AddIcon(cue.IconHome, cue.Point{X: 560, Y: 60}, 0.5, false)

	require.NoError(t, o.Render(nil, &f, cue.DefaultPinhole, &cues))

	data, seq := o.Latest()
	assert.Equal(t, uint64(1), seq)
	require.Greater(t, len(data), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2], "JPEG SOI marker")

	t.Run("over a color frame", func(t *testing.T) {
		img := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
		defer img.Close()

		empty := skeleton.Frame{}
		require.NoError(t, o.Render(&img, &empty, cue.DefaultPinhole, nil))
		assert.Equal(t, 160, img.Cols(), "input untouched")

		_, seq := o.Latest()
		assert.Equal(t, uint64(2), seq)
	})
}
