package employees

import (
	"time"

	"hrrecords/internal/platform/optional"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)

var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusTerminated)}

type Employee struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            *string    `json:"email"`
	Phone            *string    `json:"phone"`
	Position         *string    `json:"position"`
	Department       *string    `json:"department"`
	HireDate         *time.Time `json:"hireDate"`
	Salary           *string    `json:"salary"`
	Address          *string    `json:"address"`
	EmergencyContact *string    `json:"emergencyContact"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CreateInput is the client payload for a new employee. Dates arrive as
// RFC3339 or YYYY-MM-DD strings.
type CreateInput struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Position         string `json:"position"`
	Department       string `json:"department"`
	HireDate         string `json:"hireDate"`
	Salary           string `json:"salary"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	Status           string `json:"status"`
}

// Patch is the client payload for an update. Absent keys are left alone,
// null clears the column.
type Patch struct {
	FirstName        optional.Value[string] `json:"firstName"`
	LastName         optional.Value[string] `json:"lastName"`
	Email            optional.Value[string] `json:"email"`
	Phone            optional.Value[string] `json:"phone"`
	Position         optional.Value[string] `json:"position"`
	Department       optional.Value[string] `json:"department"`
	HireDate         optional.Value[string] `json:"hireDate"`
	Salary           optional.Value[string] `json:"salary"`
	Address          optional.Value[string] `json:"address"`
	EmergencyContact optional.Value[string] `json:"emergencyContact"`
	Status           optional.Value[string] `json:"status"`
}

// Changes is a validated Patch as the store applies it.
type Changes struct {
	FirstName        optional.Value[string]
	LastName         optional.Value[string]
	Email            optional.Value[string]
	Phone            optional.Value[string]
	Position         optional.Value[string]
	Department       optional.Value[string]
	HireDate         optional.Value[time.Time]
	Salary           optional.Value[string]
	Address          optional.Value[string]
	EmergencyContact optional.Value[string]
	Status           optional.Value[Status]
}

func (c Changes) Empty() bool {
	return !c.FirstName.IsSet() && !c.LastName.IsSet() && !c.Email.IsSet() &&
		!c.Phone.IsSet() && !c.Position.IsSet() && !c.Department.IsSet() &&
		!c.HireDate.IsSet() && !c.Salary.IsSet() && !c.Address.IsSet() &&
		!c.EmergencyContact.IsSet() && !c.Status.IsSet()
}
