package accidents

import "context"

type Repository interface {
	Create(ctx context.Context, accident Accident) (Accident, error)
	Get(ctx context.Context, id string) (*Accident, error)
	List(ctx context.Context) ([]Accident, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Accident, error)
	Update(ctx context.Context, id string, changes Changes) error
	Delete(ctx context.Context, id string) error
}
