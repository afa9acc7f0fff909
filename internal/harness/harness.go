package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/config"
	"github.com/roach88/bindgen/internal/fixture"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/model"
)

// Harness builds scenario models with a fixed logger.
type Harness struct {
	logger *slog.Logger
}

// New returns a harness that logs to logger. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a discarding logger.
//
// Execution flow:
//  1. Load the config file (or the defaults)
//  2. Compile the CUE IR file into a snapshot and validate it
//  3. Build and warm the model
//  4. Evaluate every assertion, collecting failures
//  5. Render the canonical model document for golden comparison
//
// An error is returned only when the model cannot be built; failed
// assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(context.Background(), scenario)
}

// Run executes a scenario.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := config.Default()
	if scenario.Config != "" {
		var err error
		cfg, err = config.Load(scenario.Config)
		if err != nil {
			return nil, err
		}
	}

	snap, err := CompileFile(scenario.IR)
	if err != nil {
		return nil, err
	}

	opts := []model.Option{model.WithConfig(cfg), model.WithLogger(h.logger)}
	if scenario.Fixtures != "" {
		opts = append(opts, model.WithFixtures(fixture.NewDirStore(scenario.Fixtures)))
	}

	m, err := model.Build(ctx, snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}

	result := NewResult()
	result.Model = m

	for i, assertion := range scenario.Assertions {
		if err := EvaluateAssertion(m, assertion); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	for _, d := range m.Diagnostics() {
		result.Diagnostics = append(result.Diagnostics, d.String())
	}

	doc, err := m.MarshalDocument()
	if err != nil {
		return nil, fmt.Errorf("marshal model: %w", err)
	}
	result.Document = doc
	result.Digest = ir.HashWithDomain(ir.DomainModel, doc)

	h.logger.Debug("scenario complete",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"digest", result.Digest,
	)

	return result, nil
}

// CompileFile compiles one CUE file into a validated IR snapshot.
func CompileFile(path string) (*ir.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR file: %w", err)
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	snap, err := compiler.CompileSnapshot(v)
	if err != nil {
		return nil, err
	}

	if verrs := compiler.Validate(snap); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, e := range verrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("invalid IR %s: %w", path, errors.Join(errs...))
	}

	return snap, nil
}
