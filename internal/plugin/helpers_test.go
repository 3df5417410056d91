package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writePlugin creates dir/name with a manifest and an executable shell
// script and returns the plugin as Discover would load it.
func writePlugin(t *testing.T, dir, name string, events []string, script string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell plugin on Windows")
	}

	pluginDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))

	m := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: name + ".sh",
		Events:     events,
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0o644))

	exe := filepath.Join(pluginDir, m.Executable)
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"+script), 0o755))

	return &Plugin{Manifest: m, Path: pluginDir, Executable: exe}
}
