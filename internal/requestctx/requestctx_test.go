package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrrecords/internal/domain/identity"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestCaller(t *testing.T) {
	assert.False(t, GetCaller(context.Background()).Authenticated())

	ctx := WithCaller(context.Background(), identity.Caller{ID: "u1", Role: identity.RoleAdmin})
	caller := GetCaller(ctx)
	assert.Equal(t, "u1", caller.ID)
	assert.True(t, caller.IsAdmin())
}
