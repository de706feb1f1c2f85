package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/querier"
)

const selectColumns = `
    SELECT id, employee_id, file_name, file_url, file_type, category::text, uploaded_by, created_at
    FROM documents`

type Store struct {
	DB *db.Handle
}

func NewStore(handle *db.Handle) *Store {
	return &Store{DB: handle}
}

func (s *Store) Create(ctx context.Context, doc Document) (Document, error) {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return Document{}, err
	}
	err = q.QueryRow(ctx, `
    INSERT INTO documents (id, employee_id, file_name, file_url, file_type, category, uploaded_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING created_at
  `, doc.ID, doc.EmployeeID, doc.FileName, doc.FileURL, doc.FileType, string(doc.Category), doc.UploadedBy,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return nil, nil
	}
	doc, err := scan(q.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *Store) List(ctx context.Context) ([]Document, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return []Document{}, nil
	}
	return query(ctx, q, selectColumns+" ORDER BY created_at DESC")
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Document, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return []Document{}, nil
	}
	return query(ctx, q, selectColumns+" WHERE employee_id = $1 ORDER BY created_at DESC", employeeID)
}

// Delete removes the row only; the stored object is left in place.
func (s *Store) Delete(ctx context.Context, id string) error {
	q, err := s.DB.Writer(ctx)
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func query(ctx context.Context, q querier.Querier, sql string, args ...any) ([]Document, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func scan(row pgx.Row) (Document, error) {
	var doc Document
	var category string
	if err := row.Scan(&doc.ID, &doc.EmployeeID, &doc.FileName, &doc.FileURL, &doc.FileType, &category, &doc.UploadedBy, &doc.CreatedAt); err != nil {
		return Document{}, err
	}
	doc.Category = Category(category)
	return doc, nil
}
