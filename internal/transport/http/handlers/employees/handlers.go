package employeehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

const entityType = "employee"

type Handler struct {
	Service *employees.Service
	Audit   *audit.Service
}

func NewHandler(service *employees.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleList)
	r.Post("/employees", h.handleCreate)
	r.Get("/employees/search", h.handleSearch)
	r.Get("/employees/{employeeID}", h.handleGet)
	r.Patch("/employees/{employeeID}", h.handleUpdate)
	r.Delete("/employees/{employeeID}", h.handleDelete)
}

// handleList also serves ?q= or ?searchTerm= as a search.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if term, ok := searchParam(r, "q", "searchTerm"); ok {
		h.search(w, r, term)
		return
	}
	list, err := h.Service.List(r.Context(), middleware.GetCaller(r))
	if err != nil {
		api.WriteError(w, err, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	term, _ := searchParam(r, "term", "searchTerm")
	h.search(w, r, term)
}

// searchParam returns the first of names present in the query string.
func searchParam(r *http.Request, names ...string) (string, bool) {
	query := r.URL.Query()
	for _, name := range names {
		if values, ok := query[name]; ok {
			return values[0], true
		}
	}
	return "", false
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, term string) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.Search(r.Context(), middleware.GetCaller(r), term)
	if err != nil {
		api.WriteError(w, err, "employee_search_failed", "failed to search employees", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.Get(r.Context(), middleware.GetCaller(r), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.WriteError(w, err, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	if !caller.Authenticated() {
		api.WriteError(w, identity.ErrUnauthenticated, "unauthorized", "authentication required", reqID)
		return
	}
	var payload employees.CreateInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	emp, err := h.Service.Create(r.Context(), caller, payload)
	if err != nil {
		api.WriteError(w, err, "employee_create_failed", "failed to create employee", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionCreate, EntityType: entityType, EntityID: emp.ID, After: redact(&emp),
	})
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	if !caller.Authenticated() {
		api.WriteError(w, identity.ErrUnauthenticated, "unauthorized", "authentication required", reqID)
		return
	}
	var patch employees.Patch
	if !shared.DecodeJSON(w, r, &patch, reqID) {
		return
	}

	id := chi.URLParam(r, "employeeID")
	if _, err := employees.ValidatePatch(id, patch); err != nil {
		api.WriteError(w, err, "employee_update_failed", "failed to update employee", reqID)
		return
	}
	before, _ := h.Service.Get(r.Context(), caller, id)
	if err := h.Service.Update(r.Context(), caller, id, patch); err != nil {
		api.WriteError(w, err, "employee_update_failed", "failed to update employee", reqID)
		return
	}
	after, _ := h.Service.Get(r.Context(), caller, id)

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionUpdate, EntityType: entityType, EntityID: id, Before: redact(before), After: redact(after),
	})
	api.Acknowledge(w, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	id := chi.URLParam(r, "employeeID")

	before, _ := h.Service.Get(r.Context(), caller, id)
	if err := h.Service.Delete(r.Context(), caller, id); err != nil {
		api.WriteError(w, err, "employee_delete_failed", "failed to delete employee", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionDelete, EntityType: entityType, EntityID: id, Before: redact(before),
	})
	api.Acknowledge(w, reqID)
}

// redact keeps salaries out of the audit trail.
func redact(emp *employees.Employee) any {
	if emp == nil {
		return nil
	}
	out := *emp
	out.Salary = nil
	return out
}
