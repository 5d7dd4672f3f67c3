package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sdkloader/internal/store"
)

var scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")

func scenarioPath(name string) string {
	return filepath.Join(scenariosDir, name+".yaml")
}

func writeScenario(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

const failingScenario = `name: expects_no_injection
description: "A capture call injects, so this assertion fails"
config:
  public_key: abc
  bundle_url: https://cdn.example/bundle.js
  defaults: { dsn: X }
steps:
  - call: captureMessage
    args: [hello]
assertions:
  - type: injected
    expect: false
`

func TestRunScenarioText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenarioPath("lazy_capture")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ lazy_capture")
	assert.Contains(t, output, "injected=true loaded=true")
	assert.Contains(t, output, "captureException")
	assert.Contains(t, output, "app.js")
	assert.Contains(t, output, "sdkloader_injections_total")
}

func TestRunScenarioJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenarioPath("lazy_capture")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	assert.True(t, resp.Data.Loaded)
	assert.Empty(t, resp.Data.Session)

	labels := make([]string, len(resp.Data.Trace))
	for i, e := range resp.Data.Trace {
		labels[i] = e.Label()
	}
	assert.Equal(t, []string{"init", "addBreadcrumb", "captureException", "error", "rejection"}, labels)
}

func TestRunScenarioFailingAssertion(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "expects_no_injection", failingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ expects_no_injection")
}

func TestRunScenarioNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/scenario.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), ErrCodeScenario)
}

func TestRunScenarioRecordsSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	buf := &bytes.Buffer{}
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		Database:    dbPath,
		IDGenerator: store.NewFixedGenerator("session-1"),
	}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := runScenarioFile(opts, scenarioPath("lazy_capture"), cmd)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"session": "session-1"`)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	sess, err := st.ReadSession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "lazy_capture", sess.Scenario)
	assert.True(t, sess.Pass)
	assert.True(t, sess.Loaded)
	require.Len(t, sess.Trace, 5)
	assert.Equal(t, "init", sess.Trace[0].Method)

	kinds := make([]string, len(sess.Queue))
	for i, q := range sess.Queue {
		kinds[i] = q.Kind
	}
	assert.Equal(t, []string{"call", "error", "rejection", "call"}, kinds)
}
