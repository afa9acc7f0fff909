package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/fixture"
)

// FixturesImportOptions holds flags for the fixtures import command.
type FixturesImportOptions struct {
	*RootOptions
	DB string // SQLite database path
}

// ImportResult is the outcome of a fixture import.
type ImportResult struct {
	Source   string `json:"source"`
	Database string `json:"database"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}

// NewFixturesCommand creates the fixtures command group.
func NewFixturesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Manage conformance fixtures",
		Long: `Manage the conformance fixtures looked up by unit-test views.

Fixtures are laid out as of<version-label>/<class>.data, for example
of13/flow_add.data.`,
	}

	cmd.AddCommand(newFixturesImportCommand(rootOpts))
	return cmd
}

func newFixturesImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FixturesImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fixtures-dir>",
		Short: "Load a fixture directory into a SQLite database",
		Long: `Load every fixture of a directory tree into a SQLite database.

Existing fixtures with the same version and class are replaced. The
database is created when missing.

Examples:
  bindgen fixtures import ./test_data --db fixtures.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixturesImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runFixturesImport(opts *FixturesImportOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("fixture directory not found: %s", dir), err)
	}
	if !info.IsDir() {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("not a directory: %s", dir), nil)
	}

	store, err := fixture.OpenSQLite(opts.DB)
	if err != nil {
		return formatter.Fail(ErrCodeFixtures, err.Error(), err)
	}
	defer store.Close()

	n, err := store.Import(ctx, fixture.NewDirStore(dir))
	if err != nil {
		return formatter.Fail(ErrCodeFixtures, err.Error(), err)
	}
	total, err := store.Count(ctx)
	if err != nil {
		return formatter.Fail(ErrCodeFixtures, err.Error(), err)
	}
	formatter.VerboseLog("Imported %d fixture(s) from %s", n, dir)

	result := ImportResult{Source: dir, Database: opts.DB, Imported: n, Total: total}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Imported %d fixture(s) into %s (%d total)\n", n, opts.DB, total)
	return nil
}
