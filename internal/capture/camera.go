// Package capture provides the color image behind the overlay and renders
// cue frames onto it with GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Render surface size. Every image handed to the overlay is scaled to it.
const (
	Width      = 640
	Height     = 480
	DefaultFPS = 30
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is a color image provider used when the skeleton source has no
// color stream of its own.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// DeviceCamera reads from a local video device.
type DeviceCamera struct {
	deviceID int
	mirror   bool

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

// NewCamera creates a camera for the given device id. When mirror is set
// frames are flipped horizontally so the image matches the user's own left
// and right.
func NewCamera(deviceID int, mirror bool) *DeviceCamera {
	return &DeviceCamera{deviceID: deviceID, mirror: mirror}
}

// Open opens the device at the render resolution.
func (c *DeviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.deviceID, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, Width)
	vc.Set(gocv.VideoCaptureFrameHeight, Height)
	vc.Set(gocv.VideoCaptureFPS, DefaultFPS)

	c.capture = vc
	return nil
}

// Close releases the device.
func (c *DeviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}

// ReadFrame reads one frame scaled to the render surface.
// The caller is responsible for closing the returned Mat.
func (c *DeviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if err := fit(&mat); err != nil {
		mat.Close()
		return nil, err
	}
	if c.mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &mat, nil
}

// IsOpen reports whether the device is open.
func (c *DeviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}

// fit scales m in place to Width x Height.
func fit(m *gocv.Mat) error {
	if m.Cols() == Width && m.Rows() == Height {
		return nil
	}
	dst := gocv.NewMat()
	gocv.Resize(*m, &dst, image.Pt(Width, Height), 0, 0, gocv.InterpolationLinear)
	if dst.Empty() {
		dst.Close()
		return fmt.Errorf("resize %dx%d frame failed", m.Cols(), m.Rows())
	}
	m.Close()
	*m = dst
	return nil
}
