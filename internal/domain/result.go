package domain

import "fmt"

// Result holds the outcome of validating one document's metadata header.
type Result struct {
	Errors   []string
	Warnings []string
	Metadata Metadata
}

// ReadFailure returns the Result for a document whose content could not be
// read. It carries a single error and no field diagnostics.
func ReadFailure(err error) Result {
	return Result{Errors: []string{fmt.Sprintf("Cannot read file: %v", err)}}
}

// Passing reports whether the document has no errors. Warnings do not count.
func (r Result) Passing() bool {
	return len(r.Errors) == 0
}

// DocStatus is the reported outcome for a single document.
type DocStatus string

const (
	// DocOK means no errors and no warnings.
	DocOK DocStatus = "OK"
	// DocWarn means warnings only, with strict mode off.
	DocWarn DocStatus = "WARN"
	// DocError means errors, or warnings under strict mode.
	DocError DocStatus = "ERROR"
)

// Status derives the document status. Strict mode escalates warnings to
// DocError without turning them into errors.
func (r Result) Status(strict bool) DocStatus {
	switch {
	case len(r.Errors) > 0:
		return DocError
	case len(r.Warnings) > 0 && strict:
		return DocError
	case len(r.Warnings) > 0:
		return DocWarn
	default:
		return DocOK
	}
}
