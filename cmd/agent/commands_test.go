package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/play"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlay(t *testing.T) {
	out, err := execute(t, "play", "--width", "5", "--height", "5", "--mines", "3", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "board 5:5:3, seed 1")
	assert.Contains(t, out, "random move at")
	assert.Regexp(t, `(won|lost) after \d+ moves`, out)
}

func TestPlayIsReproducible(t *testing.T) {
	first, err := execute(t, "play", "--preset", "beginner", "--seed", "42", "-q")
	require.NoError(t, err)
	second, err := execute(t, "play", "--preset", "beginner", "--seed", "42", "-q")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlayRejectsBadBoard(t *testing.T) {
	_, err := execute(t, "play", "--width", "3", "--height", "3", "--mines", "5")
	assert.Error(t, err)
	_, err = execute(t, "play", "--preset", "nightmare")
	assert.ErrorContains(t, err, "unknown preset")
}

func TestBenchJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiny:\n  width: 6\n  height: 6\n  mine_count: 4\n  games: 12\n"), 0o644))

	out, err := execute(t, "bench", "--presets", path, "--preset", "tiny", "--seed", "3", "--json")
	require.NoError(t, err)

	var s play.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 12, s.Games)
	assert.Equal(t, 6, s.Params.Width)
	assert.Equal(t, s.Games, s.Won+s.Lost+s.Stalled)

	out, err = execute(t, "bench", "--presets", path, "--preset", "tiny", "--seed", "3", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "6:6:4: 5 games")
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "beginner")
	assert.Contains(t, out, "30x16, 99 mines")
}
