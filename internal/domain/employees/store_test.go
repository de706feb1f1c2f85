package employees

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoutil "hrrecords/internal/platform/crypto"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/optional"
)

func TestStoreWithoutDatabase(t *testing.T) {
	store := NewStore(db.NewHandle(""), nil)
	ctx := context.Background()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	found, err := store.Search(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, found)

	got, err := store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = store.Create(ctx, Employee{ID: "e1", FirstName: "Ana", LastName: "Lee", Status: StatusActive})
	assert.ErrorIs(t, err, db.ErrUnavailable)
	assert.EqualError(t, err, "Database not available")
	assert.ErrorIs(t, store.Update(ctx, "e1", Changes{}), db.ErrUnavailable)
	assert.ErrorIs(t, store.Update(ctx, "e1", Changes{Phone: optional.Some("1")}), db.ErrUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, "e1"), db.ErrUnavailable)
}

func TestAssignments(t *testing.T) {
	store := NewStore(db.NewHandle(""), nil)
	sets, err := store.assignments(Changes{
		FirstName: optional.Some("Ana"),
		Email:     optional.Some(""),
		Phone:     optional.Null[string](),
		Status:    optional.Some(StatusInactive),
	})
	require.NoError(t, err)

	query, args := sets.UpdateSQL("employees", "e1", "updated_at = now()")
	assert.Equal(t, "UPDATE employees SET first_name = $1, email = $2, phone = $3, status = $4, updated_at = now() WHERE id = $5", query)
	assert.Equal(t, []any{"Ana", nil, nil, "inactive", "e1"}, args)
}

func TestAssignmentsSealSalary(t *testing.T) {
	cipher, err := cryptoutil.NewFieldCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	store := NewStore(db.NewHandle(""), cipher)

	sets, err := store.assignments(Changes{Salary: optional.Some("$60,000")})
	require.NoError(t, err)
	query, args := sets.UpdateSQL("employees", "e1")
	assert.Equal(t, "UPDATE employees SET salary = $1, salary_enc = $2 WHERE id = $3", query)
	require.Len(t, args, 3)
	assert.Nil(t, args[0])
	sealed, ok := args[1].([]byte)
	require.True(t, ok)
	assert.Equal(t, "$60,000", cipher.OpenOr(sealed, ""))
}

func TestStoreAgainstDatabase(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if strings.TrimSpace(dbURL) == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	handle := db.NewHandle(dbURL)
	defer handle.Close()
	pool, err := handle.Pool(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, pool, os.DirFS("../../../migrations")))

	store := NewStore(handle, nil)
	marker := uuid.NewString()[:8]
	hire := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	email := "ana." + marker + "@example.com"
	created, err := store.Create(ctx, Employee{
		ID: uuid.NewString(), FirstName: "Ana" + marker, LastName: "Lee", Email: &email, HireDate: &hire, Status: StatusActive,
	})
	require.NoError(t, err)
	defer store.Delete(ctx, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := store.Search(ctx, strings.ToUpper("ana"+marker))
	require.NoError(t, err)
	require.Len(t, found, 1)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Update(ctx, created.ID, Changes{Position: optional.Some("Clerk")}))
	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Clerk", *got.Position)
	assert.Equal(t, email, *got.Email)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, store.Update(ctx, created.ID, Changes{}))
	unchanged, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got.UpdatedAt, unchanged.UpdatedAt)

	require.NoError(t, store.Delete(ctx, created.ID))
	require.NoError(t, store.Delete(ctx, created.ID))
	got, err = store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
