package transform

import (
	"fmt"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
)

// Warning is a non-fatal resolution gap.
type Warning struct {
	Code    perrors.Code
	Subject string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Subject, w.Message)
}

// Changes counts what a transformation did.
type Changes struct {
	Rewritten      int
	Dropped        int
	Filled         int
	ModulesRemoved int
}

// Total returns the number of individual edits.
func (c Changes) Total() int {
	return c.Rewritten + c.Dropped + c.Filled + c.ModulesRemoved
}

// Result is the outcome of one transformation.
type Result struct {
	Info     *pom.Info
	Warnings []Warning
	Changes  Changes
}

func (r *Result) warn(code perrors.Code, subject, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)})
}
