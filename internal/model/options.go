package model

import (
	"log/slog"
	"runtime"

	"github.com/roach88/bindgen/internal/config"
	"github.com/roach88/bindgen/internal/fixture"
	"github.com/roach88/bindgen/internal/naming"
)

// Option configures a model build.
type Option func(*options)

type options struct {
	cfg         config.Config
	logger      *slog.Logger
	fixtures    fixture.Source
	types       naming.TypeMapper
	classifier  naming.Classifier
	concurrency int
}

func defaultOptions() options {
	return options{
		cfg:         config.Default(),
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// WithConfig replaces the override tables and naming convention.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger for build diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFixtures sets the conformance fixture source used by UnitTest.
func WithFixtures(src fixture.Source) Option {
	return func(o *options) { o.fixtures = src }
}

// WithTypeMapper replaces the wire type to semantic type mapping.
func WithTypeMapper(m naming.TypeMapper) Option {
	return func(o *options) { o.types = m }
}

// WithClassifier replaces the category predicates.
func WithClassifier(c naming.Classifier) Option {
	return func(o *options) { o.classifier = c }
}

// WithConcurrency bounds the number of goroutines warming the model.
// Values below one mean one.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.concurrency = n
	}
}
