package source

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/geo/r3"

	"github.com/ayusman/abhyasa/internal/skeleton"
)

// jsonFrame is the line format written by the bridge and by Recorder.
type jsonFrame struct {
	Timestamp int64                `json:"ts"`
	State     string               `json:"state"`
	Position  *jsonPoint           `json:"position,omitempty"`
	Clipped   []string             `json:"clipped,omitempty"`
	Joints    map[string]jsonJoint `json:"joints,omitempty"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type jsonJoint struct {
	jsonPoint
	Quality string `json:"quality"`
}

var edgeNames = []struct {
	edge skeleton.Edges
	name string
}{
	{skeleton.EdgeBottom, "bottom"},
	{skeleton.EdgeTop, "top"},
	{skeleton.EdgeLeft, "left"},
	{skeleton.EdgeRight, "right"},
}

// DecodeFrame parses one JSON line into a skeleton frame. Unknown joints are
// ignored; joints missing from the line are NotTracked.
func DecodeFrame(line []byte) (skeleton.Frame, error) {
	var jf jsonFrame
	if err := json.Unmarshal(line, &jf); err != nil {
		return skeleton.Frame{}, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	f, err := jf.toFrame()
	if err != nil {
		return skeleton.Frame{}, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	return f, nil
}

// EncodeFrame renders f as one JSON line, without the trailing newline.
func EncodeFrame(f skeleton.Frame) ([]byte, error) {
	jf := jsonFrame{State: f.State.String()}
	if !f.Timestamp.IsZero() {
		jf.Timestamp = f.Timestamp.UnixMilli()
	}
	if f.State != skeleton.SkeletonNotTracked {
		jf.Position = &jsonPoint{X: f.Position.X, Y: f.Position.Y, Z: f.Position.Z}
	}
	for _, e := range edgeNames {
		if f.ClippedEdges.Has(e.edge) {
			jf.Clipped = append(jf.Clipped, e.name)
		}
	}
	if f.State == skeleton.SkeletonTracked {
		jf.Joints = make(map[string]jsonJoint, skeleton.NumJoints)
		for j := skeleton.JointType(0); j < skeleton.NumJoints; j++ {
			s := f.Joint(j)
			if s.Quality == skeleton.NotTracked {
				continue
			}
			jf.Joints[j.String()] = jsonJoint{
				jsonPoint: jsonPoint{X: s.Position.X, Y: s.Position.Y, Z: s.Position.Z},
				Quality:   s.Quality.String(),
			}
		}
	}
	return json.Marshal(jf)
}

func (jf jsonFrame) toFrame() (skeleton.Frame, error) {
	var f skeleton.Frame

	state, ok := skeleton.ParseTrackingState(jf.State)
	if !ok {
		return f, fmt.Errorf("unknown tracking state %q", jf.State)
	}
	f.State = state
	if jf.Timestamp != 0 {
		f.Timestamp = time.UnixMilli(jf.Timestamp)
	}
	if jf.Position != nil {
		f.Position = jf.Position.vector()
	}
	for _, name := range jf.Clipped {
		for _, e := range edgeNames {
			if e.name == name {
				f.ClippedEdges |= e.edge
			}
		}
	}
	for name, j := range jf.Joints {
		jt, ok := skeleton.ParseJointType(name)
		if !ok {
			continue
		}
		q, ok := skeleton.ParseQuality(j.Quality)
		if !ok {
			return f, fmt.Errorf("joint %s: unknown quality %q", name, j.Quality)
		}
		f.Joints[jt] = skeleton.Joint{Position: j.vector(), Quality: q}
	}
	return f, nil
}

func (p jsonPoint) vector() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}
