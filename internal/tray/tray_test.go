package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/abhyasa/internal/exercise"
	"github.com/ayusman/abhyasa/internal/navigation"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		st   navigation.State
		want string
	}{
		{"waiting", navigation.State{Mode: navigation.ModeAwaitDistance}, "Waiting for user"},
		{"menu", navigation.State{Mode: navigation.ModeMenu, Selection: 2}, "Menu: option 2"},
		{"exercise", navigation.State{
			Mode:        navigation.ModeExercise,
			Exercise:    exercise.RaiseHandsID,
			Repetitions: 4,
		}, "raise-hands: 4/10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.st, 10))
		})
	}
}

func TestTray_SetStatusBeforeRun(t *testing.T) {
	tr := New()
	assert.True(t, tr.IsEnabled())
	assert.Equal(t, "Waiting for user", tr.Status())

	tr.SetStatus(navigation.State{Mode: navigation.ModeMenu, Selection: 1}, 10)
	assert.Equal(t, "Menu: option 1", tr.Status())
}
