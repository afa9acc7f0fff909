package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/config"
	"github.com/roach88/bindgen/internal/fixture"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/model"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Config      string // override file (.yaml, .yml, .toml)
	Output      string // model document output path
	Fixtures    string // fixture directory
	FixtureDB   string // fixture SQLite database
	StrictEnums bool   // fail on unresolvable enum-qualified values
	Concurrency int    // warm-up workers; zero keeps the default
}

// BuildSummary is the result of a successful build.
type BuildSummary struct {
	Versions    []string           `json:"versions"`
	Interfaces  []InterfaceSummary `json:"interfaces"`
	Enums       []string           `json:"enums"`
	Classes     int                `json:"classes"`
	TestData    int                `json:"test_data"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
	Digest      string             `json:"digest"`
	Fingerprint string             `json:"fingerprint"`
	Output      string             `json:"output,omitempty"`
}

// InterfaceSummary describes one unified interface.
type InterfaceSummary struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Versions []string `json:"versions"`
	Members  int      `json:"members"`
	Virtual  bool     `json:"virtual,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <ir-dir>",
		Short: "Build the version-unified model from CUE IR",
		Long: `Build the version-unified object model from a directory of CUE IR.

The IR is compiled and structurally validated, then reconciled into
interfaces, versioned classes, members and enums. The summary lists
every interface; --output writes the canonical model document.

Examples:
  bindgen build ./ir
  bindgen build ./ir --config bindgen.yaml -o model.json
  bindgen build ./ir --fixture-db fixtures.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "override file (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the canonical model document to this path")
	cmd.Flags().StringVar(&opts.Fixtures, "fixtures", "", "fixture directory for unit-test data")
	cmd.Flags().StringVar(&opts.FixtureDB, "fixture-db", "", "fixture SQLite database for unit-test data")
	cmd.Flags().BoolVar(&opts.StrictEnums, "strict-enums", false, "fail when an enum-qualified value has no entry")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "model warm-up workers")
	cmd.MarkFlagsMutuallyExclusive("fixtures", "fixture-db")

	return cmd
}

func runBuild(opts *BuildOptions, irDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err.Error(), err)
	}
	if opts.StrictEnums {
		cfg.StrictEnums = true
	}

	loadResult, loadErrors := LoadIR(irDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, irDir)
	if len(loadErrors) > 0 {
		return outputBuildErrors(formatter, loadErrors)
	}

	source, closeSource, err := openFixtures(opts.Fixtures, opts.FixtureDB)
	if err != nil {
		return formatter.Fail(ErrCodeFixtures, err.Error(), err)
	}
	defer closeSource()

	modelOpts := []model.Option{
		model.WithConfig(cfg),
		model.WithLogger(opts.Logger(cmd.ErrOrStderr())),
	}
	if source != nil {
		modelOpts = append(modelOpts, model.WithFixtures(source))
	}
	if opts.Concurrency > 0 {
		modelOpts = append(modelOpts, model.WithConcurrency(opts.Concurrency))
	}

	m, err := model.Build(ctx, loadResult.Snapshot, modelOpts...)
	if err != nil {
		return formatter.Fail(ErrCodeModel, err.Error(), err)
	}

	summary, err := summarize(ctx, m, source != nil)
	if err != nil {
		return formatter.Fail(ErrCodeModel, err.Error(), err)
	}

	if opts.Output != "" {
		if err := writeModelDocument(m, opts.Output); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), err)
		}
		summary.Output = opts.Output
	}

	return outputBuildSuccess(formatter, summary)
}

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openFixtures opens at most one fixture source. The returned close func is never nil.
func openFixtures(dir, dbPath string) (fixture.Source, func(), error) {
	noop := func() {}
	switch {
	case dir != "":
		info, err := os.Stat(dir)
		if err != nil {
			return nil, noop, fmt.Errorf("fixture directory: %w", err)
		}
		if !info.IsDir() {
			return nil, noop, fmt.Errorf("fixture directory: not a directory: %s", dir)
		}
		return fixture.NewDirStore(dir), noop, nil
	case dbPath != "":
		if _, err := os.Stat(dbPath); err != nil {
			return nil, noop, fmt.Errorf("fixture database: %w", err)
		}
		store, err := fixture.OpenSQLite(dbPath)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return nil, noop, nil
}

// summarize collects the per-interface view printed by build.
func summarize(ctx context.Context, m *model.Model, withFixtures bool) (*BuildSummary, error) {
	summary := &BuildSummary{
		Versions:    versionStrings(m.Versions()),
		Interfaces:  []InterfaceSummary{},
		Enums:       []string{},
		Diagnostics: []string{},
	}

	for _, iface := range m.Interfaces() {
		members, err := iface.Members()
		if err != nil {
			return nil, err
		}
		summary.Interfaces = append(summary.Interfaces, InterfaceSummary{
			Name:     iface.Name,
			Category: string(iface.Category()),
			Versions: versionStrings(iface.Versions()),
			Members:  len(members),
			Virtual:  iface.IsVirtual(),
		})

		for _, c := range iface.VersionedClasses() {
			summary.Classes++
			if !withFixtures {
				continue
			}
			ok, err := c.UnitTest().HasTestData(ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				summary.TestData++
			}
		}
	}

	for _, e := range m.Enums() {
		summary.Enums = append(summary.Enums, e.Name)
	}
	for _, d := range m.Diagnostics() {
		summary.Diagnostics = append(summary.Diagnostics, d.String())
	}

	digest, err := m.Digest()
	if err != nil {
		return nil, err
	}
	fp, err := m.Fingerprint()
	if err != nil {
		return nil, err
	}
	summary.Digest = digest
	summary.Fingerprint = fp.String()
	return summary, nil
}

func versionStrings(vs []model.WireVersion) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

// writeModelDocument writes the indented canonical model document.
func writeModelDocument(m *model.Model, filename string) error {
	data, err := m.MarshalDocument()
	if err != nil {
		return err
	}
	data, err = ir.IndentCanonical(data)
	if err != nil {
		return fmt.Errorf("indenting model document: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// outputBuildSuccess outputs the build summary.
func outputBuildSuccess(formatter *OutputFormatter, summary *BuildSummary) error {
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Built model: %d version(s), %d interface(s), %d class(es), %d enum(s)\n\n",
		len(summary.Versions), len(summary.Interfaces), summary.Classes, len(summary.Enums))

	if len(summary.Interfaces) > 0 {
		fmt.Fprintln(w, "Interfaces:")
		for _, iface := range summary.Interfaces {
			fmt.Fprintf(w, "  %s: %d member(s), versions %v", iface.Name, iface.Members, iface.Versions)
			if iface.Category != "" {
				fmt.Fprintf(w, ", %s", iface.Category)
			}
			if iface.Virtual {
				fmt.Fprint(w, ", virtual")
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if len(summary.Diagnostics) > 0 {
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range summary.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
		fmt.Fprintln(w)
	}

	if summary.TestData > 0 {
		fmt.Fprintf(w, "Test data: %d class(es)\n", summary.TestData)
	}
	fmt.Fprintf(w, "Digest: %s\n", summary.Digest)
	fmt.Fprintf(w, "Fingerprint: %s\n", summary.Fingerprint)

	if summary.Output != "" {
		fmt.Fprintf(w, "Wrote model document to %s\n", summary.Output)
	}
	return nil
}

// outputLoadError outputs an error that prevented loading any IR.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return formatter.Fail(loadErr.Code, loadErr.Message, nil)
	}
	return formatter.Fail(ErrCodeGeneric, err.Error(), nil)
}

// outputBuildErrors outputs structural IR errors that stop a build.
func outputBuildErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseLoadError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("build failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Build failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		code, message := parseLoadError(err)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("build failed with %d error(s)", len(errs)))
}

// parseLoadError extracts error code and message from a loader error.
func parseLoadError(err error) (string, string) {
	var verr compiler.ValidationError
	if errors.As(err, &verr) {
		return verr.Code, verr.Field + ": " + verr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
