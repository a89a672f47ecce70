package batch

import (
	"github.com/matzehuels/pomrewrite/pkg/pom"
	"github.com/matzehuels/pomrewrite/pkg/transform"
)

// EntryResult is the outcome for one manifest entry.
type EntryResult struct {
	Entry    Entry
	Path     string
	Info     *pom.Info
	Warnings []transform.Warning
	Changes  transform.Changes
	Err      error
	Skipped  bool
}

// OK reports whether the entry was transformed without error.
func (r EntryResult) OK() bool {
	return r.Err == nil && !r.Skipped
}

// Result holds the per-entry outcomes in manifest order.
type Result struct {
	Entries []EntryResult
}

// Failed returns the entries that ended in an error.
func (r *Result) Failed() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// Succeeded returns the entries that were transformed.
func (r *Result) Succeeded() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns the total number of warnings.
func (r *Result) Warnings() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Warnings)
	}
	return n
}
