package gesture

import (
	"time"

	"github.com/ayusman/abhyasa/internal/cue"
)

// ZoneID names a selectable region.
type ZoneID string

// NoZone is the empty zone id.
const NoZone ZoneID = ""

// Zone is an axis-aligned rectangle in render space.
type Zone struct {
	ID         ZoneID
	Center     cue.Point
	HalfWidth  float64
	HalfHeight float64
}

// Contains reports whether p lies inside the zone.
func (z Zone) Contains(p cue.Point) bool {
	return p.X >= z.Center.X-z.HalfWidth && p.X <= z.Center.X+z.HalfWidth &&
		p.Y >= z.Center.Y-z.HalfHeight && p.Y <= z.Center.Y+z.HalfHeight
}

// Entered returns the ids of zones containing any of the points, in zone
// order.
func Entered(zones []Zone, points []cue.Point) []ZoneID {
	var ids []ZoneID
	for _, z := range zones {
		for _, p := range points {
			if z.Contains(p) {
				ids = append(ids, z.ID)
				break
			}
		}
	}
	return ids
}

// DwellState is the hover in progress, if any.
type DwellState struct {
	Target ZoneID
	Start  time.Time
}

// Idle reports whether nothing is hovered.
func (s DwellState) Idle() bool {
	return s.Target == NoZone
}

// DwellResult is the outcome of one observation.
type DwellResult struct {
	Hovered   ZoneID
	Confirmed ZoneID
	Progress  float64
}

// DwellSelector confirms a zone once it has been hovered continuously for
// the dwell duration. It is driven by frame time, not by a timer.
type DwellSelector struct {
	state DwellState
}

// State returns the current hover.
func (d *DwellSelector) State() DwellState {
	return d.state
}

// Reset drops any hover in progress.
func (d *DwellSelector) Reset() {
	d.state = DwellState{}
}

// Update tests the points against zones and observes the result.
func (d *DwellSelector) Update(zones []Zone, points []cue.Point, now time.Time, dwell time.Duration) DwellResult {
	return d.Observe(Entered(zones, points), now, dwell)
}

// Observe advances the selector given the zones entered this frame. The
// hovered zone keeps priority while it stays entered; once it is left, the
// first entered zone starts a new hover on the same frame. A confirmation is
// reported once and returns the selector to idle.
func (d *DwellSelector) Observe(entered []ZoneID, now time.Time, dwell time.Duration) DwellResult {
	if !d.state.Idle() && !containsZone(entered, d.state.Target) {
		d.state = DwellState{}
	}
	if d.state.Idle() {
		if len(entered) == 0 {
			return DwellResult{}
		}
		d.state = DwellState{Target: entered[0], Start: now}
	}

	elapsed := now.Sub(d.state.Start)
	if elapsed >= dwell {
		z := d.state.Target
		d.state = DwellState{}
		return DwellResult{Hovered: z, Confirmed: z, Progress: 1}
	}
	return DwellResult{
		Hovered:  d.state.Target,
		Progress: float64(elapsed) / float64(dwell),
	}
}

func containsZone(ids []ZoneID, id ZoneID) bool {
	for _, z := range ids {
		if z == id {
			return true
		}
	}
	return false
}
