package accidenthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrrecords/internal/domain/accidents"
	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/requestctx"
)

type fakeRepo struct {
	rows    map[string]accidents.Accident
	gets    int
	updates int
}

func (f *fakeRepo) Create(_ context.Context, a accidents.Accident) (accidents.Accident, error) {
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.rows[a.ID] = a
	return a, nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*accidents.Accident, error) {
	f.gets++
	a, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeRepo) List(_ context.Context) ([]accidents.Accident, error) {
	out := []accidents.Accident{}
	for _, a := range f.rows {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) ListByEmployee(_ context.Context, employeeID string) ([]accidents.Accident, error) {
	out := []accidents.Accident{}
	for _, a := range f.rows {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, c accidents.Changes) error {
	f.updates++
	a, ok := f.rows[id]
	if !ok {
		return nil
	}
	if v, ok := c.Severity.Get(); ok {
		a.Severity = v
	}
	f.rows[id] = a
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

type lookup struct{}

func (lookup) Get(_ context.Context, id string) (*employees.Employee, error) {
	return &employees.Employee{ID: id, FirstName: "David", LastName: "Chen"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

var caller = identity.Caller{ID: "owner", Role: identity.RoleAdmin}

func newRouter(repo accidents.Repository) http.Handler {
	h := NewHandler(accidents.NewService(repo, lookup{}), audit.New(db.NewHandle("")))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestctx.WithCaller(req.Context(), caller)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func send(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestAccidentFlow(t *testing.T) {
	h := newRouter(&fakeRepo{rows: map[string]accidents.Accident{}})

	rec := send(h, http.MethodPost, "/accidents", map[string]any{
		"employeeId":   "E1",
		"accidentDate": "2024-10-15",
		"description":  "Slipped on wet floor",
		"severity":     "minor",
		"location":     "Warehouse Aisle 5",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created accidents.Accident
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	require.NotNil(t, created.ReportedBy)
	assert.Equal(t, "owner", *created.ReportedBy)

	rec = send(h, http.MethodPatch, "/accidents/"+created.ID, map[string]any{"severity": "moderate"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = send(h, http.MethodGet, "/employees/E1/accidents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []accidents.Accident
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, accidents.SeverityModerate, list[0].Severity)

	rec = send(h, http.MethodGet, "/accidents/"+created.ID+"/report.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = send(h, http.MethodDelete, "/accidents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = send(h, http.MethodGet, "/accidents/"+created.ID+"/report.pdf", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRejectsUnknownSeverity(t *testing.T) {
	h := newRouter(&fakeRepo{rows: map[string]accidents.Accident{}})
	rec := send(h, http.MethodPost, "/accidents", map[string]any{
		"employeeId":   "E1",
		"accidentDate": "2024-10-15",
		"description":  "x",
		"severity":     "catastrophic",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decode(t, rec).Error.Code)
}

func TestAccidentsWithoutDatabase(t *testing.T) {
	h := newRouter(accidents.NewStore(db.NewHandle("")))

	rec := send(h, http.MethodGet, "/accidents", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(decode(t, rec).Data))

	rec = send(h, http.MethodDelete, "/accidents/A1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInvalidAccidentPatchNeverReadsStore(t *testing.T) {
	repo := &fakeRepo{rows: map[string]accidents.Accident{"a1": {ID: "a1", EmployeeID: "E1", Severity: accidents.SeverityMinor}}}
	h := newRouter(repo)

	rec := send(h, http.MethodPatch, "/accidents/a1", map[string]any{"severity": "catastrophic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "severity", env.Error.Details.Fields[0].Field)
	assert.Zero(t, repo.gets)
	assert.Zero(t, repo.updates)
}

func TestCreateAccidentWithWronglyTypedSeverity(t *testing.T) {
	repo := &fakeRepo{rows: map[string]accidents.Accident{}}
	h := newRouter(repo)

	rec := send(h, http.MethodPost, "/accidents", map[string]any{
		"employeeId":   "E1",
		"accidentDate": "2024-10-15",
		"description":  "Slipped on wet floor",
		"severity":     5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "severity", env.Error.Details.Fields[0].Field)
	assert.Equal(t, "must be a string", env.Error.Details.Fields[0].Reason)
	assert.Empty(t, repo.rows)
}
