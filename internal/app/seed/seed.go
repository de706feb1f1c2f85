package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hrrecords/internal/domain/accidents"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/optional"
)

type Stores struct {
	Employees *employees.Store
	Accidents *accidents.Store
	Users     *identity.Store
}

type Owner struct {
	ID    string
	Name  string
	Email string
}

// Run ensures the owner row exists and loads the sample roster into an
// empty employees table. It is safe to run on every start.
func Run(ctx context.Context, stores Stores, owner Owner) error {
	if err := ensureOwner(ctx, stores.Users, owner); err != nil {
		return err
	}

	count, err := stores.Employees.Count(ctx)
	if err != nil {
		return fmt.Errorf("count employees: %w", err)
	}
	if count > 0 {
		log.Info().Int("employees", count).Msg("seed skipped, employees present")
		return nil
	}

	ids := make([]string, len(sampleEmployees))
	for i, emp := range sampleEmployees {
		emp.ID = uuid.NewString()
		emp.Status = employees.StatusActive
		created, err := stores.Employees.Create(ctx, emp)
		if err != nil {
			return fmt.Errorf("seed employee %s %s: %w", emp.FirstName, emp.LastName, err)
		}
		ids[i] = created.ID
	}

	for _, sample := range sampleAccidents {
		a := sample.accident
		a.ID = uuid.NewString()
		a.EmployeeID = ids[sample.employee]
		reporter := ids[0]
		a.ReportedBy = &reporter
		if _, err := stores.Accidents.Create(ctx, a); err != nil {
			return fmt.Errorf("seed accident: %w", err)
		}
	}

	log.Info().Int("employees", len(ids)).Int("accidents", len(sampleAccidents)).Msg("sample data seeded")
	return nil
}

func ensureOwner(ctx context.Context, users *identity.Store, owner Owner) error {
	upsert := identity.UserUpsert{
		ID:          owner.ID,
		Name:        optional.Some(owner.Name),
		LoginMethod: optional.Some("passcode"),
		Role:        optional.Some(identity.RoleAdmin),
	}
	if owner.Email != "" {
		upsert.Email = optional.Some(owner.Email)
	}
	return users.Upsert(ctx, upsert)
}

func ptr(s string) *string { return &s }

func day(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

var sampleEmployees = []employees.Employee{
	{
		FirstName:        "John",
		LastName:         "Smith",
		Email:            ptr("john.smith@company.com"),
		Phone:            ptr("+1-555-0101"),
		Position:         ptr("Safety Manager"),
		Department:       ptr("Operations"),
		HireDate:         day("2020-01-15"),
		Salary:           ptr("$75,000"),
		Address:          ptr("123 Main St, New York, NY 10001"),
		EmergencyContact: ptr("Jane Smith (Wife) - +1-555-0102"),
	},
	{
		FirstName:        "Maria",
		LastName:         "Garcia",
		Email:            ptr("maria.garcia@company.com"),
		Phone:            ptr("+1-555-0201"),
		Position:         ptr("Warehouse Supervisor"),
		Department:       ptr("Logistics"),
		HireDate:         day("2019-06-20"),
		Salary:           ptr("$65,000"),
		Address:          ptr("456 Oak Ave, Los Angeles, CA 90001"),
		EmergencyContact: ptr("Carlos Garcia (Husband) - +1-555-0202"),
	},
	{
		FirstName:        "David",
		LastName:         "Chen",
		Email:            ptr("david.chen@company.com"),
		Phone:            ptr("+1-555-0301"),
		Position:         ptr("Forklift Operator"),
		Department:       ptr("Warehouse"),
		HireDate:         day("2021-03-10"),
		Salary:           ptr("$45,000"),
		Address:          ptr("789 Pine Rd, Chicago, IL 60601"),
		EmergencyContact: ptr("Linda Chen (Mother) - +1-555-0302"),
	},
	{
		FirstName:        "Sarah",
		LastName:         "Johnson",
		Email:            ptr("sarah.johnson@company.com"),
		Phone:            ptr("+1-555-0401"),
		Position:         ptr("HR Coordinator"),
		Department:       ptr("Human Resources"),
		HireDate:         day("2018-09-01"),
		Salary:           ptr("$60,000"),
		Address:          ptr("321 Elm St, Houston, TX 77001"),
		EmergencyContact: ptr("Michael Johnson (Brother) - +1-555-0402"),
	},
	{
		FirstName:        "Robert",
		LastName:         "Williams",
		Email:            ptr("robert.williams@company.com"),
		Phone:            ptr("+1-555-0501"),
		Position:         ptr("Maintenance Technician"),
		Department:       ptr("Facilities"),
		HireDate:         day("2017-11-15"),
		Salary:           ptr("$55,000"),
		Address:          ptr("654 Maple Dr, Phoenix, AZ 85001"),
		EmergencyContact: ptr("Emily Williams (Wife) - +1-555-0502"),
	},
}

// employee indexes sampleEmployees.
var sampleAccidents = []struct {
	employee int
	accident accidents.Accident
}{
	{2, accidents.Accident{
		AccidentDate:      at("2024-10-15T14:30"),
		Location:          ptr("Warehouse Aisle 5"),
		Description:       "Employee slipped on wet floor while moving pallets. Minor injury to left ankle.",
		Severity:          accidents.SeverityMinor,
		Witnesses:         ptr("Maria Garcia, John Smith"),
		TreatmentProvided: ptr("First aid administered. Ice pack applied. Employee advised to rest."),
	}},
	{4, accidents.Accident{
		AccidentDate:      at("2024-09-22T10:15"),
		Location:          ptr("Maintenance Shop"),
		Description:       "Cut on right hand while handling sharp metal edge during equipment repair.",
		Severity:          accidents.SeverityModerate,
		Witnesses:         ptr("None"),
		TreatmentProvided: ptr("Wound cleaned and bandaged. Employee sent to clinic for evaluation."),
	}},
	{1, accidents.Accident{
		AccidentDate:      at("2024-08-05T16:45"),
		Location:          ptr("Loading Dock"),
		Description:       "Strained back while lifting heavy box without proper technique.",
		Severity:          accidents.SeverityModerate,
		Witnesses:         ptr("David Chen"),
		TreatmentProvided: ptr("Employee advised to rest. Referred to company physician for assessment."),
	}},
}
