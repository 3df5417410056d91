package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/abhyasa/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func paths(t *testing.T) []string {
	dir := t.TempDir()
	return []string{
		"--config", filepath.Join(dir, "config.toml"),
		"--db", filepath.Join(dir, "abhyasa.db"),
	}
}

func TestConfigSetAndShow(t *testing.T) {
	p := paths(t)

	out, err := execute(t, append([]string{"config", "set", "repetitions", "50"}, p...)...)
	require.NoError(t, err)
	assert.Equal(t, "repetitions = 20 (requested 50)\n", out)

	out, err = execute(t, append([]string{"config", "set", "difficulty", "1.2"}, p...)...)
	require.NoError(t, err)
	assert.Equal(t, "difficulty = 1.2\n", out)

	out, err = execute(t, append([]string{"config", "show"}, p...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "difficulty = 1.2\n")
	assert.Contains(t, out, "error-margin = 0.2\n")
	assert.Contains(t, out, "repetitions = 20\n")
	assert.Contains(t, out, "dwell = 3s\n")
}

func TestConfigShow_FileValues(t *testing.T) {
	p := paths(t)
	toml := "[session]\nerror-margin = 1.5\ndwell = \"2s\"\n"
	require.NoError(t, os.WriteFile(p[1], []byte(toml), 0o644))

	out, err := execute(t, append([]string{"config", "show"}, p...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "error-margin = 0.9\n")
	assert.Contains(t, out, "dwell = 2s\n")
}

func TestConfigSet_Invalid(t *testing.T) {
	p := paths(t)

	_, err := execute(t, append([]string{"config", "set", "difficulty", "hard"}, p...)...)
	assert.ErrorIs(t, err, config.ErrMalformedValue)

	_, err = execute(t, append([]string{"config", "set", "speed", "1"}, p...)...)
	assert.ErrorIs(t, err, config.ErrUnknownParameter)

	_, err = execute(t, append([]string{"config", "set", "difficulty"}, p...)...)
	assert.Error(t, err)
}

func TestMessages(t *testing.T) {
	out, err := execute(t, "messages", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "step-back")
	assert.Contains(t, out, "exercise-complete")
}

func TestRun_RequiresSource(t *testing.T) {
	p := paths(t)
	_, err := execute(t, p...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no frame source")
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--addr", ":9000"}))

	addr, lang, cam := "127.0.0.1:1", "fr", 3
	opts := &options{addr: ":9000", camera: noCamera}
	applyFileConfig(cmd, opts, config.FileConfig{
		Server: config.ServerConfig{Addr: &addr},
		Source: config.SourceConfig{Camera: &cam},
		UI:     config.UIConfig{Lang: &lang},
	})

	assert.Equal(t, ":9000", opts.addr)
	assert.Equal(t, 3, opts.camera)
	assert.Equal(t, "fr", opts.lang)
}

func TestDashboardURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", dashboardURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:8080", dashboardURL("127.0.0.1:8080"))
}
