package harness

import "github.com/roach88/bindgen/internal/model"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Digest is the content hash of the built model document.
	Digest string `json:"digest"`

	// Diagnostics are the degraded-resolution warnings of the build.
	Diagnostics []string `json:"diagnostics,omitempty"`

	// Document is the canonical JSON model document, compared against golden files.
	Document []byte `json:"-"`

	// Model is the built model.
	Model *model.Model `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
