package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloIR = `
protocol: of10: {
	wire_version: 1
	classes: [{
		name:         "of_hello"
		base_length:  8
		fixed_length: true
		members: [
			{name: "version", type: "uint8_t"},
			{name: "type", type: "uint8_t", value: 0},
			{name: "length", type: "uint16_t", kind: "length"},
			{name: "xid", type: "uint32_t"},
		]
	}]
}
`

const helloScenario = `name: hello
description: OFHello is fixed length
ir: hello.cue
assertions:
  - type: union_members
    interface: OFHello
    members: [type, xid]
  - type: class_length
    interface: OFHello
    version: 1
    length: 8
`

const brokenScenario = `name: broken
description: wrong union
ir: hello.cue
assertions:
  - type: union_members
    interface: OFHello
    members: [xid]
`

// writeScenarios lays out a scenario directory sharing one IR file.
func writeScenarios(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.cue"), []byte(helloIR), 0644))
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data.Scenarios)
	assert.Zero(t, resp.Data.Total)
}

func TestTestCommandPassing(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"hello": helloScenario})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ hello")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFailing(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"hello": helloScenario, "broken": brokenScenario})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "Assertion failed: union_members")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFailingJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken": brokenScenario})

	cmd := NewTestCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"bad": "name: bad\n"})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGolden(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"hello": helloScenario})
	goldenPath := filepath.Join(dir, "golden", "hello.golden")

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ hello (golden updated)")
	require.FileExists(t, goldenPath)

	cmd = NewTestCommand(&RootOptions{Format: "text"})
	_, _, err = execute(cmd, dir)
	require.NoError(t, err, "fresh golden file must match")

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	cmd = NewTestCommand(&RootOptions{Format: "text"})
	out, _, err = execute(cmd, dir)
	require.Error(t, err)
	assert.Contains(t, out, "model does not match golden file")
}

func TestTestCommandFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"hello": helloScenario, "broken": brokenScenario})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, dir, "--filter", "hel*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "broken")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "c.txt", "golden/d.yaml", "nested/e.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "e.yaml"),
	}, files)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "flow_add.golden"),
		goldenFilePath(filepath.Join("scenarios", "flow_add.yaml")))
}
