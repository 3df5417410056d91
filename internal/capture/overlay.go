package capture

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

var (
	colorTracked     = color.RGBA{R: 68, G: 192, B: 68, A: 255}
	colorInferred    = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	colorInferredRay = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	colorClipped     = color.RGBA{R: 255, A: 255}
	colorText        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorProgress    = color.RGBA{R: 0, G: 170, B: 255, A: 255}

	stateColors = map[cue.State]color.RGBA{
		cue.Waiting:     {R: 255, G: 200, B: 0, A: 255},
		cue.Achieved:    {R: 0, G: 200, B: 0, A: 255},
		cue.NotAchieved: {R: 220, G: 0, B: 0, A: 255},
	}

	iconLabels = map[cue.Icon]string{
		cue.IconHome:       "Home",
		cue.IconExercise1:  "1",
		cue.IconExercise2:  "2",
		cue.IconArrowLeft:  "<",
		cue.IconArrowRight: ">",
		cue.IconArrowUp:    "^",
	}
)

const (
	trackedBone  = 6
	inferredBone = 1
	jointRadius  = 3
	clipBar      = 10
	iconRadius   = 28
)

// Overlay draws skeletons and cue frames and keeps the latest rendered
// frame as JPEG for streaming.
type Overlay struct {
	lang string

	mu     sync.RWMutex
	latest []byte
	seq    uint64
}

// NewOverlay creates an overlay that prints messages in lang.
func NewOverlay(lang string) *Overlay {
	return &Overlay{lang: lang}
}

// Render draws f and cues over img, or over a black canvas when img is nil
// or empty, and stores the result. img is not modified.
func (o *Overlay) Render(img *gocv.Mat, f *skeleton.Frame, proj cue.Projector, cues *cue.Frame) error {
	canvas, err := canvasFrom(img)
	if err != nil {
		return err
	}
	defer canvas.Close()

	o.Draw(&canvas, f, proj, cues)

	buf, err := gocv.IMEncode(".jpg", canvas)
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	defer buf.Close()

	data := append([]byte(nil), buf.GetBytes()...)
	o.mu.Lock()
	o.latest = data
	o.seq++
	o.mu.Unlock()
	return nil
}

// Latest returns the last rendered JPEG and its sequence number. The
// sequence is zero before the first render.
func (o *Overlay) Latest() ([]byte, uint64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest, o.seq
}

// Draw paints the skeleton and cues onto canvas.
func (o *Overlay) Draw(canvas *gocv.Mat, f *skeleton.Frame, proj cue.Projector, cues *cue.Frame) {
	if !f.Empty() {
		drawClippedEdges(canvas, f.ClippedEdges)
		if f.State == skeleton.SkeletonTracked {
			drawSkeleton(canvas, f, proj)
		} else {
			gocv.Circle(canvas, pt(proj.Project(f.Position)), jointRadius*3, colorTracked, -1)
		}
	}
	if cues == nil {
		return
	}

	for _, m := range cues.Markers {
		gocv.Circle(canvas, pt(m.Center), int(math.Max(m.Radius, 2)), stateColors[m.State], 3)
	}
	for _, a := range cues.Arrows {
		gocv.ArrowedLine(canvas, pt(a.From), pt(a.To), stateColors[a.State], 4)
	}
	for _, ic := range cues.Icons {
		drawIcon(canvas, ic)
	}

	if cues.Target > 0 && cues.Exercise != "" {
		counter := fmt.Sprintf("%d/%d", cues.Repetitions, cues.Target)
		gocv.PutText(canvas, counter, image.Pt(16, 40), gocv.FontHersheySimplex, 1.2, colorText, 2)
	}
	if cues.Progress > 0 {
		drawProgress(canvas, image.Pt(Width-48, Height-96), 24, cues.Progress)
	}
	if cues.Message != cue.MsgNone {
		text := Fold(cue.Text(cues.Message, o.lang))
		gocv.PutText(canvas, text, image.Pt(16, Height-24), gocv.FontHersheySimplex, 0.6, colorText, 2)
	}
}

func canvasFrom(img *gocv.Mat) (gocv.Mat, error) {
	if img == nil || img.Empty() {
		return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), Height, Width, gocv.MatTypeCV8UC3), nil
	}
	c := img.Clone()
	if err := fit(&c); err != nil {
		c.Close()
		return gocv.Mat{}, err
	}
	return c, nil
}

// drawSkeleton draws bones thick when both ends are tracked and thin when
// either end is inferred. Bones touching an untracked joint are skipped.
func drawSkeleton(canvas *gocv.Mat, f *skeleton.Frame, proj cue.Projector) {
	for _, b := range skeleton.Bones {
		from, to := f.Joint(b.From), f.Joint(b.To)
		if from.Quality == skeleton.NotTracked || to.Quality == skeleton.NotTracked {
			continue
		}
		if from.Quality == skeleton.Inferred && to.Quality == skeleton.Inferred {
			continue
		}
		p1, p2 := pt(proj.Project(from.Position)), pt(proj.Project(to.Position))
		if from.Quality == skeleton.Tracked && to.Quality == skeleton.Tracked {
			gocv.Line(canvas, p1, p2, colorTracked, trackedBone)
		} else {
			gocv.Line(canvas, p1, p2, colorInferredRay, inferredBone)
		}
	}

	for _, j := range f.Joints {
		switch j.Quality {
		case skeleton.Tracked:
			gocv.Circle(canvas, pt(proj.Project(j.Position)), jointRadius, colorTracked, -1)
		case skeleton.Inferred:
			gocv.Circle(canvas, pt(proj.Project(j.Position)), jointRadius, colorInferred, -1)
		}
	}
}

func drawClippedEdges(canvas *gocv.Mat, e skeleton.Edges) {
	if e.Has(skeleton.EdgeBottom) {
		gocv.Rectangle(canvas, image.Rect(0, Height-clipBar, Width, Height), colorClipped, -1)
	}
	if e.Has(skeleton.EdgeTop) {
		gocv.Rectangle(canvas, image.Rect(0, 0, Width, clipBar), colorClipped, -1)
	}
	if e.Has(skeleton.EdgeLeft) {
		gocv.Rectangle(canvas, image.Rect(0, 0, clipBar, Height), colorClipped, -1)
	}
	if e.Has(skeleton.EdgeRight) {
		gocv.Rectangle(canvas, image.Rect(Width-clipBar, 0, Width, Height), colorClipped, -1)
	}
}

func drawIcon(canvas *gocv.Mat, ic cue.Placement) {
	c := pt(ic.Center)
	ring := colorText
	if ic.Selected {
		ring = stateColors[cue.Achieved]
	}
	gocv.Circle(canvas, c, iconRadius, ring, 2)
	if ic.Progress > 0 {
		drawProgress(canvas, c, iconRadius+6, ic.Progress)
	}

	label := iconLabels[ic.Icon]
	sz := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.7, 2)
	gocv.PutText(canvas, label, image.Pt(c.X-sz.X/2, c.Y+sz.Y/2), gocv.FontHersheySimplex, 0.7, colorText, 2)
}

// drawProgress draws a clockwise arc from twelve o'clock covering progress
// of a full turn.
func drawProgress(canvas *gocv.Mat, c image.Point, r int, progress float64) {
	end := -90 + 360*math.Min(progress, 1)
	gocv.Ellipse(canvas, c, image.Pt(r, r), 0, -90, end, colorProgress, 4)
}

func pt(p cue.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

var folder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ñ", "N",
	"¡", "", "¿", "",
)

// Fold maps text to the ASCII subset the Hershey fonts can draw.
func Fold(s string) string {
	return folder.Replace(s)
}
