package accidents

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/optional"
	"hrrecords/internal/platform/validate"
)

// EmployeeLookup resolves the employee named on a report.
type EmployeeLookup interface {
	Get(ctx context.Context, id string) (*employees.Employee, error)
}

type Service struct {
	Store     Repository
	Employees EmployeeLookup
	newID     func() string
}

func NewService(store Repository, lookup EmployeeLookup) *Service {
	return &Service{Store: store, Employees: lookup, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context, caller identity.Caller) ([]Accident, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, caller identity.Caller, id string) (*Accident, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) ListByEmployee(ctx context.Context, caller identity.Caller, employeeID string) ([]Accident, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	if err := requireID("employeeId", employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListByEmployee(ctx, employeeID)
}

// Create records a new accident reported by caller.
func (s *Service) Create(ctx context.Context, caller identity.Caller, in CreateInput) (Accident, error) {
	if !caller.Authenticated() {
		return Accident{}, identity.ErrUnauthenticated
	}

	v := validate.New()
	v.Required("employeeId", in.EmployeeID)
	v.Required("description", in.Description)
	v.Required("severity", in.Severity)
	v.Enum("severity", in.Severity, Severities)
	var accidentDate time.Time
	if strings.TrimSpace(in.AccidentDate) == "" {
		v.Required("accidentDate", in.AccidentDate)
	} else {
		accidentDate, _ = v.Date("accidentDate", in.AccidentDate)
	}
	if err := v.Err(); err != nil {
		return Accident{}, err
	}

	reporter := caller.ID
	accident := Accident{
		ID:                s.newID(),
		EmployeeID:        in.EmployeeID,
		AccidentDate:      accidentDate,
		Location:          stringPtr(in.Location),
		Description:       in.Description,
		Severity:          Severity(in.Severity),
		Witnesses:         stringPtr(in.Witnesses),
		TreatmentProvided: stringPtr(in.TreatmentProvided),
		ReportedBy:        &reporter,
	}
	return s.Store.Create(ctx, accident)
}

func (s *Service) Update(ctx context.Context, caller identity.Caller, id string, patch Patch) error {
	if !caller.Authenticated() {
		return identity.ErrUnauthenticated
	}
	changes, err := ValidatePatch(id, patch)
	if err != nil {
		return err
	}
	return s.Store.Update(ctx, id, changes)
}

func (s *Service) Delete(ctx context.Context, caller identity.Caller, id string) error {
	if !caller.Authenticated() {
		return identity.ErrUnauthenticated
	}
	if err := requireID("id", id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// Report renders the accident as a PDF. It returns nil bytes when the
// accident does not exist.
func (s *Service) Report(ctx context.Context, caller identity.Caller, id string) ([]byte, error) {
	accident, err := s.Get(ctx, caller, id)
	if err != nil || accident == nil {
		return nil, err
	}
	var employee *employees.Employee
	if s.Employees != nil {
		employee, err = s.Employees.Get(ctx, accident.EmployeeID)
		if err != nil {
			return nil, err
		}
	}
	return renderReport(*accident, employee)
}

// ValidatePatch checks patch on its own, without touching the store.
func ValidatePatch(id string, p Patch) (Changes, error) {
	v := validate.New()
	v.Required("id", id)

	changes := Changes{
		Location:          p.Location,
		Witnesses:         p.Witnesses,
		TreatmentProvided: p.TreatmentProvided,
	}

	if p.Description.IsSet() {
		if p.Description.IsNull() {
			v.Add("description", "cannot be null")
		} else {
			v.Required("description", p.Description.OrZero())
			changes.Description = p.Description
		}
	}

	if p.Severity.IsSet() {
		raw := p.Severity.OrZero()
		if p.Severity.IsNull() || raw == "" {
			v.Add("severity", "must be one of: "+strings.Join(Severities, ", "))
		} else {
			v.Enum("severity", raw, Severities)
			changes.Severity = optional.Some(Severity(raw))
		}
	}

	if p.AccidentDate.IsSet() {
		if p.AccidentDate.IsNull() {
			v.Add("accidentDate", "cannot be null")
		} else if parsed, ok := v.Date("accidentDate", p.AccidentDate.OrZero()); ok {
			changes.AccidentDate = optional.Some(parsed)
		}
	}

	if err := v.Err(); err != nil {
		return Changes{}, err
	}
	return changes, nil
}

func requireID(field, value string) error {
	v := validate.New()
	v.Required(field, value)
	return v.Err()
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
