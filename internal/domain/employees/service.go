package employees

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/optional"
	"hrrecords/internal/platform/validate"
)

type Service struct {
	Store Repository
	newID func() string
}

func NewService(store Repository) *Service {
	return &Service{Store: store, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context, caller identity.Caller) ([]Employee, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	return s.Store.List(ctx)
}

// Get returns nil without error when the employee does not exist.
func (s *Service) Get(ctx context.Context, caller identity.Caller, id string) (*Employee, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	v := validate.New()
	v.Required("id", id)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, caller identity.Caller, term string) ([]Employee, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	return s.Store.Search(ctx, term)
}

func (s *Service) Create(ctx context.Context, caller identity.Caller, in CreateInput) (Employee, error) {
	if !caller.Authenticated() {
		return Employee{}, identity.ErrUnauthenticated
	}

	v := validate.New()
	v.Required("firstName", in.FirstName)
	v.Required("lastName", in.LastName)
	v.Email("email", in.Email)
	v.Enum("status", in.Status, Statuses)
	var hireDate *time.Time
	if strings.TrimSpace(in.HireDate) != "" {
		if parsed, ok := v.Date("hireDate", in.HireDate); ok {
			hireDate = &parsed
		}
	}
	if err := v.Err(); err != nil {
		return Employee{}, err
	}

	status := Status(in.Status)
	if status == "" {
		status = StatusActive
	}
	emp := Employee{
		ID:               s.newID(),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            stringPtr(in.Email),
		Phone:            stringPtr(in.Phone),
		Position:         stringPtr(in.Position),
		Department:       stringPtr(in.Department),
		HireDate:         hireDate,
		Salary:           stringPtr(in.Salary),
		Address:          stringPtr(in.Address),
		EmergencyContact: stringPtr(in.EmergencyContact),
		Status:           status,
	}
	return s.Store.Create(ctx, emp)
}

// Update applies only the fields present in patch. Updating an id that does
// not exist is not an error.
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
	v := validate.New()
	v.Required("id", id)
	if err := v.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// ValidatePatch checks patch on its own, without touching the store.
func ValidatePatch(id string, p Patch) (Changes, error) {
	v := validate.New()
	v.Required("id", id)

	requiredText := func(field string, value optional.Value[string]) {
		if !value.IsSet() {
			return
		}
		if value.IsNull() {
			v.Add(field, "cannot be null")
			return
		}
		v.Required(field, value.OrZero())
	}
	requiredText("firstName", p.FirstName)
	requiredText("lastName", p.LastName)
	v.Email("email", p.Email.OrZero())

	changes := Changes{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		Position:         p.Position,
		Department:       p.Department,
		Salary:           p.Salary,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
	}

	if p.Status.IsSet() {
		if p.Status.IsNull() {
			v.Add("status", "cannot be null")
		} else {
			raw := p.Status.OrZero()
			if raw == "" {
				v.Add("status", "must be one of: "+strings.Join(Statuses, ", "))
			}
			v.Enum("status", raw, Statuses)
			changes.Status = optional.Some(Status(raw))
		}
	}

	if p.HireDate.IsSet() {
		raw := p.HireDate.OrZero()
		if p.HireDate.IsNull() || strings.TrimSpace(raw) == "" {
			changes.HireDate = optional.Null[time.Time]()
		} else if parsed, ok := v.Date("hireDate", raw); ok {
			changes.HireDate = optional.Some(parsed)
		}
	}

	if err := v.Err(); err != nil {
		return Changes{}, err
	}
	return changes, nil
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
