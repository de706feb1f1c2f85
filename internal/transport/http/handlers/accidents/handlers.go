package accidenthandler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/accidents"
	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

const entityType = "accident"

type Handler struct {
	Service *accidents.Service
	Audit   *audit.Service
}

func NewHandler(service *accidents.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/accidents", h.handleList)
	r.Post("/accidents", h.handleCreate)
	r.Get("/accidents/{accidentID}", h.handleGet)
	r.Patch("/accidents/{accidentID}", h.handleUpdate)
	r.Delete("/accidents/{accidentID}", h.handleDelete)
	r.Get("/accidents/{accidentID}/report.pdf", h.handleReport)
	r.Get("/employees/{employeeID}/accidents", h.handleListByEmployee)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.List(r.Context(), middleware.GetCaller(r))
	if err != nil {
		api.WriteError(w, err, "accident_list_failed", "failed to list accidents", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleListByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.ListByEmployee(r.Context(), middleware.GetCaller(r), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.WriteError(w, err, "accident_list_failed", "failed to list accidents", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	accident, err := h.Service.Get(r.Context(), middleware.GetCaller(r), chi.URLParam(r, "accidentID"))
	if err != nil {
		api.WriteError(w, err, "accident_get_failed", "failed to load accident", reqID)
		return
	}
	api.Success(w, accident, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	if !caller.Authenticated() {
		api.WriteError(w, identity.ErrUnauthenticated, "unauthorized", "authentication required", reqID)
		return
	}
	var payload accidents.CreateInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	accident, err := h.Service.Create(r.Context(), caller, payload)
	if err != nil {
		api.WriteError(w, err, "accident_create_failed", "failed to record accident", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionCreate, EntityType: entityType, EntityID: accident.ID, After: accident,
	})
	api.Created(w, accident, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	if !caller.Authenticated() {
		api.WriteError(w, identity.ErrUnauthenticated, "unauthorized", "authentication required", reqID)
		return
	}
	var patch accidents.Patch
	if !shared.DecodeJSON(w, r, &patch, reqID) {
		return
	}

	id := chi.URLParam(r, "accidentID")
	if _, err := accidents.ValidatePatch(id, patch); err != nil {
		api.WriteError(w, err, "accident_update_failed", "failed to update accident", reqID)
		return
	}
	before, _ := h.Service.Get(r.Context(), caller, id)
	if err := h.Service.Update(r.Context(), caller, id, patch); err != nil {
		api.WriteError(w, err, "accident_update_failed", "failed to update accident", reqID)
		return
	}
	after, _ := h.Service.Get(r.Context(), caller, id)

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionUpdate, EntityType: entityType, EntityID: id, Before: before, After: after,
	})
	api.Acknowledge(w, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	id := chi.URLParam(r, "accidentID")

	before, _ := h.Service.Get(r.Context(), caller, id)
	if err := h.Service.Delete(r.Context(), caller, id); err != nil {
		api.WriteError(w, err, "accident_delete_failed", "failed to delete accident", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionDelete, EntityType: entityType, EntityID: id, Before: before,
	})
	api.Acknowledge(w, reqID)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "accidentID")
	pdf, err := h.Service.Report(r.Context(), middleware.GetCaller(r), id)
	if err != nil {
		api.WriteError(w, err, "accident_report_failed", "failed to render report", reqID)
		return
	}
	if pdf == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "accident not found", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionExport, EntityType: entityType, EntityID: id,
	})
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "accident-"+id+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
