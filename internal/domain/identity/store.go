package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/optional"
)

type Store struct {
	DB      *db.Handle
	OwnerID string
}

func NewStore(handle *db.Handle, ownerID string) *Store {
	return &Store{DB: handle, OwnerID: ownerID}
}

// Upsert inserts the user or merges the supplied fields into the existing
// row. Without a database it only logs, so a login can still complete.
func (s *Store) Upsert(ctx context.Context, user UserUpsert) error {
	if user.ID == "" {
		return ErrMissingUserID
	}
	q, err := s.DB.Writer(ctx)
	if err != nil {
		log.Warn().Err(err).Str("userId", user.ID).Msg("cannot upsert user")
		return nil
	}
	query, args := buildUpsert(user, s.OwnerID)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	q, ok := s.DB.Reader(ctx)
	if !ok {
		return nil, nil
	}
	var out User
	var role string
	err := q.QueryRow(ctx, `
    SELECT id, name, email, login_method, role::text, created_at, last_signed_in
    FROM users
    WHERE id = $1
  `, id).Scan(&out.ID, &out.Name, &out.Email, &out.LoginMethod, &role, &out.CreatedAt, &out.LastSignedIn)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	out.Role = Role(role)
	return &out, nil
}

// buildUpsert renders the INSERT ... ON CONFLICT statement for the fields
// present in user. The owner is promoted to admin when no role is given.
func buildUpsert(user UserUpsert, ownerID string) (string, []any) {
	columns := []string{"id"}
	values := []string{"$1"}
	args := []any{user.ID}
	var updates []string

	add := func(column, cast string, value any) {
		args = append(args, value)
		columns = append(columns, column)
		values = append(values, fmt.Sprintf("$%d%s", len(args), cast))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}
	text := func(column string, v optional.Value[string]) {
		if !v.IsSet() {
			return
		}
		if v.IsNull() {
			add(column, "", nil)
			return
		}
		add(column, "", v.OrZero())
	}

	text("name", user.Name)
	text("email", user.Email)
	text("login_method", user.LoginMethod)
	if user.LastSignedIn.IsSet() {
		if at, ok := user.LastSignedIn.Get(); ok {
			add("last_signed_in", "", at)
		} else {
			add("last_signed_in", "", nil)
		}
	}
	if role, ok := user.Role.Get(); ok {
		add("role", "::user_role", string(role))
	} else if !user.Role.IsSet() && ownerID != "" && user.ID == ownerID {
		add("role", "::user_role", string(RoleAdmin))
	}

	if len(updates) == 0 {
		updates = append(updates, "last_signed_in = now()")
	}

	query := fmt.Sprintf(
		"INSERT INTO users (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		strings.Join(columns, ", "),
		strings.Join(values, ", "),
		strings.Join(updates, ", "),
	)
	return query, args
}
