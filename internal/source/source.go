// Package source delivers skeleton frames from the sensor bridge, from a
// recorded file, or from a test mock.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// ErrSourceClosed is returned by Next after Close.
var ErrSourceClosed = errors.New("source closed")

// ErrMalformedFrame is returned by Next for a line that does not decode. The
// source stays usable and the following call reads the next line.
var ErrMalformedFrame = errors.New("malformed frame")

// Capture is one delivery from a source. Skeleton may be empty. Color is nil
// when the source has no color stream; the receiver owns a non-nil Color.
type Capture struct {
	Skeleton skeleton.Frame
	Color    *gocv.Mat
}

// Source defines the interface for skeleton frame providers.
type Source interface {
	// Next blocks until the next frame is available. It returns io.EOF when
	// a finite source is exhausted.
	Next(ctx context.Context) (*Capture, error)

	// Projector maps sensor space to the 640x480 render surface.
	Projector() cue.Projector

	// Close releases any resources held by the source.
	Close() error
}

// Smoothing holds the skeletal smoothing parameters handed to the sensor
// runtime. The filter itself runs in the bridge.
type Smoothing struct {
	Smoothing          float64
	Correction         float64
	Prediction         float64
	JitterRadius       float64
	MaxDeviationRadius float64
}

// DefaultSmoothing returns the parameters the bridge is tuned for.
func DefaultSmoothing() Smoothing {
	return Smoothing{
		Smoothing:          0.5,
		Correction:         0.1,
		Prediction:         0.5,
		JitterRadius:       0.1,
		MaxDeviationRadius: 0.1,
	}
}

// Validate checks that every parameter is within the ranges the sensor
// runtime accepts.
func (s Smoothing) Validate() error {
	unit := map[string]float64{
		"smoothing":  s.Smoothing,
		"correction": s.Correction,
		"prediction": s.Prediction,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %g", name, v)
		}
	}
	if s.JitterRadius < 0 {
		return fmt.Errorf("jitter-radius must not be negative, got %g", s.JitterRadius)
	}
	if s.MaxDeviationRadius < 0 {
		return fmt.Errorf("max-deviation-radius must not be negative, got %g", s.MaxDeviationRadius)
	}
	return nil
}

// Args renders the parameters as bridge command line flags.
func (s Smoothing) Args() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		"--smoothing", f(s.Smoothing),
		"--correction", f(s.Correction),
		"--prediction", f(s.Prediction),
		"--jitter-radius", f(s.JitterRadius),
		"--max-deviation-radius", f(s.MaxDeviationRadius),
	}
}
