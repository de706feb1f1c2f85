package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	cryptoutil "hrrecords/internal/platform/crypto"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/optional"
	"hrrecords/internal/platform/querier"
)

const selectColumns = `
    SELECT id, first_name, last_name, email, phone, position, department, hire_date,
           salary, salary_enc, address, emergency_contact, status::text, created_at, updated_at
    FROM employees`

type Store struct {
	DB     *db.Handle
	Crypto *cryptoutil.FieldCipher
}

func NewStore(handle *db.Handle, crypto *cryptoutil.FieldCipher) *Store {
	return &Store{DB: handle, Crypto: crypto}
}

func (s *Store) Create(ctx context.Context, emp Employee) (Employee, error) {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return Employee{}, err
	}
	salaryPlain, salaryEnc, err := s.sealSalary(emp.Salary)
	if err != nil {
		return Employee{}, err
	}
	err = q.QueryRow(ctx, `
    INSERT INTO employees (id, first_name, last_name, email, phone, position, department, hire_date,
                           salary, salary_enc, address, emergency_contact, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING created_at, updated_at
  `, emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Position, emp.Department, emp.HireDate,
		salaryPlain, salaryEnc, emp.Address, emp.EmergencyContact, string(emp.Status),
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return emp, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return nil, nil
	}
	emp, err := s.scan(q.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &emp, nil
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return []Employee{}, nil
	}
	return s.query(ctx, q, selectColumns+" ORDER BY created_at DESC")
}

// Search matches term case-insensitively as a substring of any of the name,
// email, department or position columns.
func (s *Store) Search(ctx context.Context, term string) ([]Employee, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return []Employee{}, nil
	}
	return s.query(ctx, q, selectColumns+`
    WHERE first_name ILIKE $1
       OR last_name ILIKE $1
       OR email ILIKE $1
       OR department ILIKE $1
       OR position ILIKE $1
    ORDER BY created_at DESC`, querier.ContainsPattern(term))
}

func (s *Store) Update(ctx context.Context, id string, changes Changes) error {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return err
	}
	if changes.Empty() {
		return nil
	}
	sets, err := s.assignments(changes)
	if err != nil {
		return err
	}
	query, args := sets.UpdateSQL("employees", id, "updated_at = now()")
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, "DELETE FROM employees WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// Count is used by the seeder.
func (s *Store) Count(ctx context.Context) (int, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return 0, nil
	}
	var count int
	if err := q.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) assignments(c Changes) (*querier.Assignments, error) {
	sets := &querier.Assignments{}
	text := func(column string, v optional.Value[string]) {
		if v.IsSet() {
			sets.Set(column, v.OrZero())
		}
	}
	nullable := func(column string, v optional.Value[string]) {
		if v.IsSet() {
			sets.Set(column, querier.NullIfEmpty(v.OrZero()))
		}
	}

	text("first_name", c.FirstName)
	text("last_name", c.LastName)
	nullable("email", c.Email)
	nullable("phone", c.Phone)
	nullable("position", c.Position)
	nullable("department", c.Department)
	if c.HireDate.IsSet() {
		if at, ok := c.HireDate.Get(); ok {
			sets.Set("hire_date", at)
		} else {
			sets.Set("hire_date", nil)
		}
	}
	if c.Salary.IsSet() {
		var salary *string
		if value, ok := c.Salary.Get(); ok && value != "" {
			salary = &value
		}
		plain, sealed, err := s.sealSalary(salary)
		if err != nil {
			return nil, err
		}
		sets.Set("salary", plain)
		sets.Set("salary_enc", sealed)
	}
	nullable("address", c.Address)
	nullable("emergency_contact", c.EmergencyContact)
	if status, ok := c.Status.Get(); ok {
		sets.Set("status", string(status))
	}
	return sets, nil
}

// sealSalary returns the values for the salary and salary_enc columns.
// With a key configured only the sealed column is written.
func (s *Store) sealSalary(salary *string) (*string, []byte, error) {
	if salary == nil || !s.Crypto.Enabled() {
		return salary, nil, nil
	}
	sealed, err := s.Crypto.Seal(*salary)
	if err != nil {
		return nil, nil, fmt.Errorf("seal salary: %w", err)
	}
	return nil, sealed, nil
}

func (s *Store) query(ctx context.Context, q querier.Querier, sql string, args ...any) ([]Employee, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) scan(row pgx.Row) (Employee, error) {
	var emp Employee
	var salaryEnc []byte
	var status string
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.Position, &emp.Department,
		&emp.HireDate, &emp.Salary, &salaryEnc, &emp.Address, &emp.EmergencyContact, &status,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	emp.Status = Status(status)
	if len(salaryEnc) > 0 {
		plain := ""
		if emp.Salary != nil {
			plain = *emp.Salary
		}
		if opened := s.Crypto.OpenOr(salaryEnc, plain); opened != "" {
			emp.Salary = &opened
		}
	}
	return emp, nil
}
