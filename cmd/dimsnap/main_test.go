package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recording = `
name: box edge
frames:
  - candidates:
      - {kind: edge, element_id: box-2, world: [0, 0, 0], local: [0, 0, 0], distance_px: 2, stable: true}
      - {kind: point, world: [1, 0, 0], distance_px: 9}
  - event: click
    candidates:
      - {kind: edge, element_id: box-2, world: [0, 0, 0], local: [0, 0, 0], distance_px: 2, stable: true}
  - event: click
    candidates:
      - {kind: point, element_id: box-2, world: [0, 40, 0], local: [0, 40, 0], distance_px: 1, stable: true}
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) string {
	t.Helper()
	configPath, verbose, pickFrame, watchDebounce = "", false, 0, 200*time.Millisecond

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(ctx))
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReplayCommand(t *testing.T) {
	path := writeFile(t, "frames.yaml", recording)

	out := execute(t, "replay", path)
	assert.Contains(t, out, "Snap Replay: box edge")
	assert.Contains(t, out, "Dimensions placed: 1")
	assert.Contains(t, out, "length 40.000000")
}

func TestPickCommand(t *testing.T) {
	path := writeFile(t, "frames.yaml", recording)

	out := execute(t, "pick", path, "--frame", "0")
	assert.Contains(t, out, "Frame 0 ranking")
	assert.Contains(t, out, "edge@box-2")
}

func TestPolicyCommandAppliesConfig(t *testing.T) {
	cfgPath := writeFile(t, "dimsnap.yaml", "snap:\n  switch_threshold: 5\n  priority:\n    face: 99\n")

	out := execute(t, "policy", "--config", cfgPath)
	assert.Contains(t, out, "switch_threshold: 5")
	assert.Contains(t, out, "face: 99")
	assert.Contains(t, out, "point: 120")
}

func TestWatchCommandStopsOnCancelledContext(t *testing.T) {
	path := writeFile(t, "frames.yaml", recording)
	cfgPath := writeFile(t, "dimsnap.yaml", "snap:\n  tolerance_px: 12\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "recording only", args: []string{"watch", path}},
		{name: "with config", args: []string{"watch", path, "--config", cfgPath, "--debounce", "10ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			out := executeContext(t, ctx, tt.args...)
			assert.Contains(t, out, "Snap Replay: box edge")
			assert.Contains(t, out, "Dimensions placed: 1")
			assert.Contains(t, out, "length 40.000000")
		})
	}
}
