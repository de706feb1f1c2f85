package validate

import (
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is returned by procedures whose input failed validation. It is
// always produced before any store access.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields lists the offending field names in order.
func (e *Error) Fields() []string {
	out := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		out = append(out, issue.Field)
	}
	return out
}

type Validator struct {
	issues []Issue
}

func New() *Validator {
	return &Validator{issues: make([]Issue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, Issue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

// Enum accepts only exact members of allowed. Empty values are left to
// Required so optional enums can share the rule.
func (v *Validator) Enum(field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, "must be one of: "+strings.Join(allowed, ", "))
}

// Email allows the empty string, which callers use to mean "no email".
func (v *Validator) Email(field, value string) {
	if value == "" {
		return
	}
	if !govalidator.IsEmail(value) {
		v.Add(field, "must be a valid email address")
	}
}

// Date parses RFC3339 or YYYY-MM-DD.
func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be a valid date (YYYY-MM-DD or RFC3339)")
		return time.Time{}, false
	}
	return parsed, true
}

func (v *Validator) Base64(field, raw string) ([]byte, bool) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		v.Add(field, "must be base64 encoded")
		return nil, false
	}
	return decoded, true
}

func (v *Validator) HasIssues() bool {
	return len(v.issues) > 0
}

// Err returns a *Error with issues sorted by field, or nil.
func (v *Validator) Err() error {
	if !v.HasIssues() {
		return nil
	}
	out := make([]Issue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return &Error{Issues: out}
}

func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
