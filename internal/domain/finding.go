package domain

// FindingSeverity indicates how severe a finding is.
type FindingSeverity string

const (
	// SeverityError indicates a finding that fails validation.
	SeverityError FindingSeverity = "error"
	// SeverityWarning indicates a finding that should be reviewed.
	SeverityWarning FindingSeverity = "warning"
)

// Finding represents a single metadata issue found in a document.
type Finding struct {
	Severity FindingSeverity
	Message  string
	Path     string
}

// Findings flattens r into findings for path, errors first, each group in
// rule order.
func (r Result) Findings(path string) []Finding {
	findings := make([]Finding, 0, len(r.Errors)+len(r.Warnings))
	for _, msg := range r.Errors {
		findings = append(findings, Finding{Severity: SeverityError, Message: msg, Path: path})
	}
	for _, msg := range r.Warnings {
		findings = append(findings, Finding{Severity: SeverityWarning, Message: msg, Path: path})
	}
	return findings
}
