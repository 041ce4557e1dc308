package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Allowed Status values.
const (
	StatusDraft      = "Draft"
	StatusAccepted   = "Accepted"
	StatusDeprecated = "Deprecated"
	StatusRejected   = "Rejected"
	StatusWorking    = "Working"
)

// AllowedStatuses lists the accepted Status values.
var AllowedStatuses = []string{
	StatusDraft,
	StatusAccepted,
	StatusDeprecated,
	StatusRejected,
	StatusWorking,
}

var (
	semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	dateRegex   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	emailRegex  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// IsAllowedStatus reports whether status is one of AllowedStatuses.
func IsAllowedStatus(status string) bool {
	for _, s := range AllowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// decisionRequired reports whether status demands a non-empty Decision.
func decisionRequired(status string) bool {
	return status == StatusAccepted || status == StatusDeprecated
}

// decisionOptional reports whether status tolerates a missing Decision with a warning.
func decisionOptional(status string) bool {
	return status == StatusDraft || status == StatusWorking
}

// Validate applies every metadata rule to meta and returns the collected
// errors and warnings in rule order. today is the date used to flag a
// Last Updated value in the future; only its calendar date is considered.
func Validate(meta Metadata, today time.Time) Result {
	res := Result{Metadata: meta}

	for _, field := range RequiredFields {
		if !meta.Has(field) {
			res.addError("Missing field: %s", field)
		}
	}

	if ver, ok := meta[FieldVersion]; ok {
		if !semverRegex.MatchString(ver) {
			res.addError("Invalid semver: %s", ver)
		}
	}

	if lu, ok := meta[FieldLastUpdated]; ok {
		validateLastUpdated(&res, lu, today)
	}

	if status, ok := meta[FieldStatus]; ok {
		if !IsAllowedStatus(status) {
			res.addError("Invalid Status: %s", status)
		}
		decision, hasDecision := meta[FieldDecision]
		if decisionRequired(status) && hasDecision && decision == "" {
			res.addError("Decision field empty")
		}
		if decisionRequired(status) && !hasDecision {
			res.addError("Decision required for this Status")
		}
		if decisionOptional(status) && !hasDecision {
			res.addWarning("Decision optional but missing for Draft/Working")
		}
	}

	if owner, ok := meta[FieldOwner]; ok {
		if !emailRegex.MatchString(owner) {
			res.addError("Owner must include an email address")
		}
	}

	return res
}

// validateLastUpdated checks format, calendar validity and future dates.
func validateLastUpdated(res *Result, value string, today time.Time) {
	m := dateRegex.FindStringSubmatch(value)
	if m == nil {
		res.addError("Invalid date format (YYYY-MM-DD): %s", value)
		return
	}

	date, ok := calendarDate(m[1], m[2], m[3])
	if !ok {
		res.addError("Invalid date value: %s", value)
		return
	}

	y, mo, d := today.Date()
	if date.After(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)) {
		res.addWarning("Last Updated in future: %s", value)
	}
}

// calendarDate builds a UTC date from its digit groups, rejecting values
// that time.Date would silently normalize (month 13, February 30, year 0).
func calendarDate(ys, ms, ds string) (time.Time, bool) {
	y, _ := strconv.Atoi(ys)
	mo, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	if y < 1 || mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
