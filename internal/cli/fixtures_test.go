package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/fixture"
)

func TestFixturesImport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixtures.db")

	cmd := NewFixturesCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "import", fixturesDir, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported 3 fixture(s) into "+dbPath+" (3 total)")

	store, err := fixture.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFixturesImportTwiceReplaces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixtures.db")

	for range 2 {
		cmd := NewFixturesCommand(&RootOptions{Format: "json"})
		out, _, err := execute(cmd, "import", fixturesDir, "--db", dbPath)
		require.NoError(t, err)

		var resp struct {
			Status string       `json:"status"`
			Data   ImportResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 3, resp.Data.Imported)
		assert.Equal(t, 3, resp.Data.Total)
	}
}

func TestFixturesImportMissingDB(t *testing.T) {
	cmd := NewFixturesCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd, "import", fixturesDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db" not set`)
}

func TestFixturesImportNonExistentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixtures.db")

	cmd := NewFixturesCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "import", "/nonexistent/fixtures", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
