package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bindgen/internal/ir"
)

// GoldenDir is where golden model documents live, relative to the test package.
const GoldenDir = "testdata/golden"

// RunWithGolden executes a scenario, fails the test on any assertion error,
// and compares the model document against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()
	return assertGoldenIn(t, GoldenDir, name, result)
}

func assertGoldenIn(t *testing.T, dir, name string, result *Result) error {
	t.Helper()

	// Indented for reviewable diffs; key order stays canonical.
	doc, err := ir.IndentCanonical(result.Document)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, doc)

	return nil
}
