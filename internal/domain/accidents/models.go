package accidents

import (
	"time"

	"hrrecords/internal/platform/optional"
)

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

var Severities = []string{string(SeverityMinor), string(SeverityModerate), string(SeveritySevere), string(SeverityCritical)}

type Accident struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employeeId"`
	AccidentDate      time.Time `json:"accidentDate"`
	Location          *string   `json:"location"`
	Description       string    `json:"description"`
	Severity          Severity  `json:"severity"`
	Witnesses         *string   `json:"witnesses"`
	TreatmentProvided *string   `json:"treatmentProvided"`
	ReportedBy        *string   `json:"reportedBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateInput has no reporter field; the reporter is always the caller.
type CreateInput struct {
	EmployeeID        string `json:"employeeId"`
	AccidentDate      string `json:"accidentDate"`
	Location          string `json:"location"`
	Description       string `json:"description"`
	Severity          string `json:"severity"`
	Witnesses         string `json:"witnesses"`
	TreatmentProvided string `json:"treatmentProvided"`
}

type Patch struct {
	AccidentDate      optional.Value[string] `json:"accidentDate"`
	Location          optional.Value[string] `json:"location"`
	Description       optional.Value[string] `json:"description"`
	Severity          optional.Value[string] `json:"severity"`
	Witnesses         optional.Value[string] `json:"witnesses"`
	TreatmentProvided optional.Value[string] `json:"treatmentProvided"`
}

type Changes struct {
	AccidentDate      optional.Value[time.Time]
	Location          optional.Value[string]
	Description       optional.Value[string]
	Severity          optional.Value[Severity]
	Witnesses         optional.Value[string]
	TreatmentProvided optional.Value[string]
}
