package accidents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/optional"
	"hrrecords/internal/platform/querier"
)

const selectColumns = `
    SELECT id, employee_id, accident_date, location, description, severity::text,
           witnesses, treatment_provided, reported_by, created_at, updated_at
    FROM accidents`

type Store struct {
	DB *db.Handle
}

func NewStore(handle *db.Handle) *Store {
	return &Store{DB: handle}
}

func (s *Store) Create(ctx context.Context, a Accident) (Accident, error) {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return Accident{}, err
	}
	err = q.QueryRow(ctx, `
    INSERT INTO accidents (id, employee_id, accident_date, location, description, severity,
                           witnesses, treatment_provided, reported_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING created_at, updated_at
  `, a.ID, a.EmployeeID, a.AccidentDate, a.Location, a.Description, string(a.Severity),
		a.Witnesses, a.TreatmentProvided, a.ReportedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Accident{}, fmt.Errorf("insert accident: %w", err)
	}
	return a, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Accident, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return nil, nil
	}
	a, err := scan(q.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get accident: %w", err)
	}
	return &a, nil
}

func (s *Store) List(ctx context.Context) ([]Accident, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return []Accident{}, nil
	}
	return query(ctx, q, selectColumns+" ORDER BY accident_date DESC")
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Accident, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return []Accident{}, nil
	}
	return query(ctx, q, selectColumns+" WHERE employee_id = $1 ORDER BY accident_date DESC", employeeID)
}

func (s *Store) Update(ctx context.Context, id string, changes Changes) error {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return err
	}
	sets := assignments(changes)
	if sets.Len() == 0 {
		return nil
	}
	sql, args := sets.UpdateSQL("accidents", id, "updated_at = now()")
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update accident: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, "DELETE FROM accidents WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete accident: %w", err)
	}
	return nil
}

func assignments(c Changes) *querier.Assignments {
	sets := &querier.Assignments{}
	nullable := func(column string, v optional.Value[string]) {
		if v.IsSet() {
			sets.Set(column, querier.NullIfEmpty(v.OrZero()))
		}
	}
	if at, ok := c.AccidentDate.Get(); ok {
		sets.Set("accident_date", at)
	}
	nullable("location", c.Location)
	if description, ok := c.Description.Get(); ok {
		sets.Set("description", description)
	}
	if severity, ok := c.Severity.Get(); ok {
		sets.Set("severity", string(severity))
	}
	nullable("witnesses", c.Witnesses)
	nullable("treatment_provided", c.TreatmentProvided)
	return sets
}

func query(ctx context.Context, q querier.Querier, sql string, args ...any) ([]Accident, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list accidents: %w", err)
	}
	defer rows.Close()

	out := []Accident{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scan(row pgx.Row) (Accident, error) {
	var a Accident
	var severity string
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.AccidentDate, &a.Location, &a.Description, &severity,
		&a.Witnesses, &a.TreatmentProvided, &a.ReportedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Accident{}, err
	}
	a.Severity = Severity(severity)
	return a, nil
}
