package gesture

import (
	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// Accumulator tracks the net vertical displacement of one hand since the
// last reset. Downward motion subtracts; travelled is never clamped.
type Accumulator struct {
	LastY     float64
	Travelled float64
}

// Reset starts a new accumulation at height y.
func (a *Accumulator) Reset(y float64) {
	a.LastY = y
	a.Travelled = 0
}

// Update adds the displacement from the last height to y and returns the
// running total.
func (a *Accumulator) Update(y float64) float64 {
	a.Travelled += y - a.LastY
	a.LastY = y
	return a.Travelled
}

// HandAccumulators holds one accumulator per hand.
type HandAccumulators struct {
	Left  Accumulator
	Right Accumulator
}

// Reset restarts both accumulators at the current hand heights.
func (h *HandAccumulators) Reset(f *skeleton.Frame) {
	h.Left.Reset(f.Pos(skeleton.HandLeft).Y)
	h.Right.Reset(f.Pos(skeleton.HandRight).Y)
}

// RaiseAnchorDistance is the head to right shoulder height, recomputed per
// frame so the threshold follows the user's distance from the sensor.
func RaiseAnchorDistance(f *skeleton.Frame) float64 {
	return f.Pos(skeleton.Head).Y - f.Pos(skeleton.ShoulderRight).Y
}

// GestureTarget is the displacement each hand must exceed.
func GestureTarget(anchor float64, cfg config.Session) float64 {
	return anchor * cfg.DifficultyFactor * (1 - cfg.ErrorMargin)
}

// RaiseTargetHeight is where the raise arrows point: difficulty anchor
// distances above the head.
func RaiseTargetHeight(f *skeleton.Frame, difficulty float64) float64 {
	return f.Pos(skeleton.Head).Y + difficulty*RaiseAnchorDistance(f)
}

// GestureResult reports per hand whether the displacement exceeds Target.
type GestureResult struct {
	Left   bool
	Right  bool
	Target float64
}

// Both reports whether both hands completed the gesture.
func (r GestureResult) Both() bool {
	return r.Left && r.Right
}

// CheckGesture advances acc with the current hand heights and compares each
// total with the target. Quality is not checked: the caller must call it
// every frame so no displacement is counted twice.
func CheckGesture(f *skeleton.Frame, acc *HandAccumulators, anchor float64, cfg config.Session) GestureResult {
	target := GestureTarget(anchor, cfg)
	l := acc.Left.Update(f.Pos(skeleton.HandLeft).Y)
	r := acc.Right.Update(f.Pos(skeleton.HandRight).Y)
	return GestureResult{Left: l > target, Right: r > target, Target: target}
}
