package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	irDir       = filepath.Join("..", "..", "testdata", "ir")
	fixturesDir = filepath.Join("..", "..", "testdata", "fixtures")
	configYAML  = filepath.Join("..", "..", "testdata", "bindgen.yaml")
	configTOML  = filepath.Join("..", "..", "testdata", "bindgen.toml")
)

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeIR writes a single-file CUE package into a fresh directory.
func writeIR(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	content := "package openflow\n\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ir.cue"), []byte(content), 0644))
	return dir
}

const duplicateClassIR = `
protocol: of10: {
	wire_version: 1
	classes: [{name: "of_hello", members: []}, {name: "of_hello", members: []}]
}
`

const unresolvedReasonIR = `
protocol: of10: {
	wire_version: 1
	classes: [{
		name: "of_port_status"
		members: [{name: "reason", type: "of_port_reason_t", value: 9}]
	}]
	enums: [{name: "ofp_port_reason", entries: [{name: "OFPPR_ADD", value: 0}]}]
}
`
