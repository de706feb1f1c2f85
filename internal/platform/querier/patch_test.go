package querier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSQL(t *testing.T) {
	var a Assignments
	a.Set("first_name", "Ana")
	a.Set("email", nil)

	query, args := a.UpdateSQL("employees", "e1", "updated_at = now()")
	assert.Equal(t, "UPDATE employees SET first_name = $1, email = $2, updated_at = now() WHERE id = $3", query)
	assert.Equal(t, []any{"Ana", nil, "e1"}, args)
	assert.Equal(t, 2, a.Len())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ana%", ContainsPattern("ana"))
	assert.Equal(t, `%50\%\_off\\%`, ContainsPattern(`50%_off\`))
	assert.Equal(t, "%%", ContainsPattern(""))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty(""))
	assert.Equal(t, "x", NullIfEmpty("x"))
}
