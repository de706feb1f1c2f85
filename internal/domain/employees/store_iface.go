package employees

import "context"

type Repository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	Get(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Search(ctx context.Context, term string) ([]Employee, error)
	Update(ctx context.Context, id string, changes Changes) error
	Delete(ctx context.Context, id string) error
}
