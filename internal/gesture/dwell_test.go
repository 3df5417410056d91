package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/abhyasa/internal/cue"
)

var testZones = []Zone{
	{ID: "left", Center: cue.Point{X: 100, Y: 240}, HalfWidth: 40, HalfHeight: 55},
	{ID: "right", Center: cue.Point{X: 540, Y: 240}, HalfWidth: 40, HalfHeight: 55},
	{ID: "up", Center: cue.Point{X: 320, Y: 60}, HalfWidth: 90, HalfHeight: 35},
}

func TestZone_Contains(t *testing.T) {
	z := testZones[2]
	assert.True(t, z.Contains(cue.Point{X: 320, Y: 60}))
	assert.True(t, z.Contains(cue.Point{X: 405, Y: 90}))
	assert.False(t, z.Contains(cue.Point{X: 415, Y: 60}))
	assert.False(t, z.Contains(cue.Point{X: 320, Y: 100}))
}

func TestEntered(t *testing.T) {
	hands := []cue.Point{{X: 540, Y: 240}, {X: 100, Y: 240}}
	// zone order, not hand order
	assert.Equal(t, []ZoneID{"left", "right"}, Entered(testZones, hands))
	assert.Empty(t, Entered(testZones, []cue.Point{{X: 320, Y: 400}}))
}

func TestDwellSelector_Boundary(t *testing.T) {
	const dwell = 3 * time.Second
	const eps = 10 * time.Millisecond
	t0 := time.Unix(1000, 0)
	in := []ZoneID{"up"}

	var d DwellSelector
	res := d.Observe(in, t0, dwell)
	assert.Equal(t, ZoneID("up"), res.Hovered)
	assert.Equal(t, NoZone, res.Confirmed)
	assert.Equal(t, 0.0, res.Progress)

	res = d.Observe(in, t0.Add(dwell/2), dwell)
	assert.InDelta(t, 0.5, res.Progress, 1e-9)

	res = d.Observe(in, t0.Add(dwell-eps), dwell)
	assert.Equal(t, NoZone, res.Confirmed)

	res = d.Observe(in, t0.Add(dwell+eps), dwell)
	assert.Equal(t, ZoneID("up"), res.Confirmed)
	assert.True(t, d.State().Idle())

	// still in the zone: a fresh hover starts, no second confirmation
	res = d.Observe(in, t0.Add(dwell+2*eps), dwell)
	assert.Equal(t, NoZone, res.Confirmed)
	assert.Equal(t, t0.Add(dwell+2*eps), d.State().Start)

	// held on: it confirms again one dwell after the re-arm
	res = d.Observe(in, t0.Add(2*dwell+2*eps), dwell)
	assert.Equal(t, ZoneID("up"), res.Confirmed)
}

func TestDwellSelector_LeaveResets(t *testing.T) {
	const dwell = time.Second
	t0 := time.Unix(0, 0)

	var d DwellSelector
	d.Observe([]ZoneID{"left"}, t0, dwell)
	d.Observe(nil, t0.Add(500*time.Millisecond), dwell)
	assert.True(t, d.State().Idle())

	res := d.Observe([]ZoneID{"left"}, t0.Add(900*time.Millisecond), dwell)
	assert.Equal(t, NoZone, res.Confirmed)
	res = d.Observe([]ZoneID{"left"}, t0.Add(1500*time.Millisecond), dwell)
	assert.Equal(t, NoZone, res.Confirmed, "hover restarted at 900ms")
}

func TestDwellSelector_FirstEnteredWins(t *testing.T) {
	const dwell = time.Second
	t0 := time.Unix(0, 0)

	var d DwellSelector
	d.Observe([]ZoneID{"right"}, t0, dwell)

	// left appears earlier in zone order but right is already hovered
	res := d.Observe([]ZoneID{"left", "right"}, t0.Add(600*time.Millisecond), dwell)
	assert.Equal(t, ZoneID("right"), res.Hovered)

	// right cleared: left takes over on the same frame
	res = d.Observe([]ZoneID{"left"}, t0.Add(700*time.Millisecond), dwell)
	assert.Equal(t, ZoneID("left"), res.Hovered)
	assert.Equal(t, t0.Add(700*time.Millisecond), d.State().Start)
}

func TestDwellSelector_Update(t *testing.T) {
	var d DwellSelector
	t0 := time.Unix(0, 0)
	hands := []cue.Point{{X: 100, Y: 250}}

	d.Update(testZones, hands, t0, time.Second)
	res := d.Update(testZones, hands, t0.Add(time.Second), time.Second)
	assert.Equal(t, ZoneID("left"), res.Confirmed)

	d.Update(testZones, hands, t0.Add(2*time.Second), time.Second)
	d.Reset()
	assert.True(t, d.State().Idle())
}
