package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)

			require.NoError(t, AssertGolden(t, scenario.Name, result))
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "non_lazy.yaml"))
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestMarshalSnapshot_EmptyTrace(t *testing.T) {
	got, err := MarshalSnapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"empty","trace":[]}`, string(got))
}
