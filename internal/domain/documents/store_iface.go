package documents

import "context"

type Repository interface {
	Create(ctx context.Context, doc Document) (Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context) ([]Document, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Document, error)
	Delete(ctx context.Context, id string) error
}
