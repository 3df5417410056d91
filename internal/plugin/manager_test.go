package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Discover(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "chime", []string{"repetition", "exercise-completed"}, "exit 0\n")
	writePlugin(t, dir, "logger", []string{"*"}, "exit 0\n")

	// not a plugin
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0o644))
	// broken manifest
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken", "plugin.json"), []byte("{"), 0o644))

	m := NewManager(dir)
	require.NoError(t, m.Discover())

	plugins := m.List()
	require.Len(t, plugins, 2)
	assert.Equal(t, "chime", plugins[0].Manifest.Name)
	assert.Equal(t, "logger", plugins[1].Manifest.Name)
	assert.Equal(t, filepath.Join(dir, "chime", "chime.sh"), plugins[0].Executable)

	p, err := m.Get("chime")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chime"), p.Path)

	_, err = m.Get("nope")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, m.Discover())
	assert.Empty(t, m.List())
}

func TestManager_Discover_Rescan(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "one", []string{"repetition"}, "exit 0\n")

	m := NewManager(dir)
	require.NoError(t, m.Discover())
	require.Len(t, m.List(), 1)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "one")))
	require.NoError(t, m.Discover())
	assert.Empty(t, m.List())
}

func TestManager_Subscribers(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "chime", []string{"repetition", "exercise-completed"}, "exit 0\n")
	writePlugin(t, dir, "logger", []string{"*"}, "exit 0\n")

	m := NewManager(dir)
	require.NoError(t, m.Discover())

	names := func(ps []*Plugin) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Manifest.Name)
		}
		return out
	}

	assert.Equal(t, []string{"chime", "logger"}, names(m.Subscribers("repetition")))
	assert.Equal(t, []string{"logger"}, names(m.Subscribers("tracking-lost")))
}

func TestManifest_Subscribes(t *testing.T) {
	m := Manifest{Events: []string{"repetition"}}
	assert.True(t, m.Subscribes("repetition"))
	assert.False(t, m.Subscribes("exercise-started"))
	assert.False(t, Manifest{}.Subscribes("repetition"))
}

func TestLoadPlugin_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"malformed", `{`},
		{"no name", `{"executable":"run.sh","events":["*"]}`},
		{"no executable", `{"name":"x","events":["*"]}`},
		{"no events", `{"name":"x","executable":"run.sh"}`},
		{"missing executable", `{"name":"x","executable":"gone.sh","events":["*"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(tt.manifest), 0o644))

			_, err := LoadPlugin(dir)
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestLoadPlugin_NoManifest(t *testing.T) {
	_, err := LoadPlugin(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
