package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfig = filepath.Join("..", "config", "testdata", "loader.cue")

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loader.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestValidateValidConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{validConfig})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "is valid")
	assert.Contains(t, output, "58595e0ac5744aae8c0f6498ac07d5ed")
	assert.Contains(t, output, "onunhandledrejection")
}

func TestValidateValidConfigJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{validConfig})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ConfigSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Sentry", resp.Data.Namespace)
	assert.Equal(t, "onerror", resp.Data.ErrorHook)
	assert.Equal(t, "data-lazy", resp.Data.LazyAttr)
	assert.Equal(t, "production", resp.Data.Defaults["environment"])
}

func TestValidateNonExistentFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/loader.cue"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "config file not found")
}

func TestValidateSchemaViolation(t *testing.T) {
	path := writeConfig(t, `loader: {
	public_key: "abc"
	bundle_url: "ftp://cdn.example/bundle.js"
	defaults: dsn: "X"
}
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "bundle_url")
}

func TestValidateDuplicateHooks(t *testing.T) {
	path := writeConfig(t, `loader: {
	public_key:     "abc"
	bundle_url:     "https://cdn.example/bundle.js"
	error_hook:     "onerror"
	rejection_hook: "onerror"
	defaults: dsn: "X"
}
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)

	var resp struct {
		Error struct {
			Details ValidationDetails `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "DUPLICATE_HOOK", resp.Error.Details.Code)
}
