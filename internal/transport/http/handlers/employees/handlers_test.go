package employeehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/requestctx"
)

type fakeRepo struct {
	rows    map[string]employees.Employee
	gets    int
	updates int
}

func (f *fakeRepo) Create(_ context.Context, emp employees.Employee) (employees.Employee, error) {
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = emp.CreatedAt
	f.rows[emp.ID] = emp
	return emp, nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*employees.Employee, error) {
	f.gets++
	emp, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (f *fakeRepo) List(_ context.Context) ([]employees.Employee, error) {
	out := []employees.Employee{}
	for _, emp := range f.rows {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeRepo) Search(_ context.Context, term string) ([]employees.Employee, error) {
	out := []employees.Employee{}
	for _, emp := range f.rows {
		if strings.Contains(strings.ToLower(emp.FirstName+" "+emp.LastName), strings.ToLower(term)) {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, c employees.Changes) error {
	f.updates++
	emp, ok := f.rows[id]
	if !ok {
		return nil
	}
	if v, ok := c.Position.Get(); ok {
		emp.Position = &v
	}
	f.rows[id] = emp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func newRouter(repo employees.Repository, caller identity.Caller) http.Handler {
	h := NewHandler(employees.NewService(repo), audit.New(db.NewHandle("")))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if caller.Authenticated() {
				req = req.WithContext(requestctx.WithCaller(req.Context(), caller))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

var owner = identity.Caller{ID: "owner", Role: identity.RoleAdmin}

func TestEmployeeLifecycle(t *testing.T) {
	repo := &fakeRepo{rows: map[string]employees.Employee{}}
	h := newRouter(repo, owner)

	rec, env := do(t, h, http.MethodPost, "/employees", map[string]any{"firstName": "Ana", "lastName": "Lee"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created employees.Employee
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, employees.StatusActive, created.Status)

	rec, env = do(t, h, http.MethodPatch, "/employees/"+created.ID, map[string]any{"position": "Manager"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, string(env.Data))

	rec, env = do(t, h, http.MethodGet, "/employees/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got employees.Employee
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Manager", *got.Position)

	rec, env = do(t, h, http.MethodGet, "/employees?q=ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []employees.Employee
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found, 1)

	rec, _ = do(t, h, http.MethodDelete, "/employees/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, http.MethodDelete, "/employees/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/employees/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "null", string(env.Data))
}

func TestCreateValidationFailure(t *testing.T) {
	h := newRouter(&fakeRepo{rows: map[string]employees.Employee{}}, owner)
	rec, env := do(t, h, http.MethodPost, "/employees", map[string]any{"firstName": "Ana", "lastName": "Lee", "status": "retired"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
}

func TestAnonymousRejectedBeforeDecoding(t *testing.T) {
	h := newRouter(&fakeRepo{rows: map[string]employees.Employee{}}, identity.Caller{})
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/employees", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithoutDatabase(t *testing.T) {
	h := newRouter(employees.NewStore(db.NewHandle(""), nil), owner)

	rec, env := do(t, h, http.MethodGet, "/employees", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(env.Data))

	rec, env = do(t, h, http.MethodPost, "/employees", map[string]any{"firstName": "Ana", "lastName": "Lee"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Database not available", env.Error.Message)
}

func TestInvalidPatchNeverReadsStore(t *testing.T) {
	repo := &fakeRepo{rows: map[string]employees.Employee{"e1": {ID: "e1", FirstName: "Ana", LastName: "Lee"}}}
	h := newRouter(repo, owner)

	rec, env := do(t, h, http.MethodPatch, "/employees/e1", map[string]any{"status": "retired"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "status", env.Error.Details.Fields[0].Field)
	assert.Zero(t, repo.gets)
	assert.Zero(t, repo.updates)

	rec, _ = do(t, h, http.MethodPatch, "/employees/e1", map[string]any{"status": "inactive"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, repo.gets)
	assert.Equal(t, 1, repo.updates)
}

func TestCreateWithWronglyTypedField(t *testing.T) {
	repo := &fakeRepo{rows: map[string]employees.Employee{}}
	h := newRouter(repo, owner)

	rec, env := do(t, h, http.MethodPost, "/employees", map[string]any{"firstName": 123, "lastName": "Lee"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "firstName", env.Error.Details.Fields[0].Field)
	assert.Equal(t, "must be a string", env.Error.Details.Fields[0].Reason)
	assert.Empty(t, repo.rows)
}

func TestSearchAcceptsSearchTerm(t *testing.T) {
	repo := &fakeRepo{rows: map[string]employees.Employee{
		"e1": {ID: "e1", FirstName: "Ana", LastName: "Lee"},
		"e2": {ID: "e2", FirstName: "Bo", LastName: "Park"},
	}}
	h := newRouter(repo, owner)

	for _, path := range []string{
		"/employees/search?searchTerm=ana",
		"/employees/search?term=ana",
		"/employees?searchTerm=ana",
		"/employees?q=ana",
	} {
		rec, env := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		var found []employees.Employee
		require.NoError(t, json.Unmarshal(env.Data, &found))
		require.Len(t, found, 1, path)
		assert.Equal(t, "e1", found[0].ID)
	}

	rec, env := do(t, h, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []employees.Employee
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)
}
