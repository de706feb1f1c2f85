package identity

import "context"

type Repository interface {
	Upsert(ctx context.Context, user UserUpsert) error
	Get(ctx context.Context, id string) (*User, error)
}
