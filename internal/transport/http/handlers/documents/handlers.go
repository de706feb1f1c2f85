package documenthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/documents"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

const entityType = "document"

type Handler struct {
	Service *documents.Service
	Audit   *audit.Service
}

func NewHandler(service *documents.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/documents", h.handleList)
	r.Post("/documents", h.handleUpload)
	r.Get("/documents/{documentID}", h.handleGet)
	r.Delete("/documents/{documentID}", h.handleDelete)
	r.Get("/employees/{employeeID}/documents", h.handleListByEmployee)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.List(r.Context(), middleware.GetCaller(r))
	if err != nil {
		api.WriteError(w, err, "document_list_failed", "failed to list documents", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleListByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.ListByEmployee(r.Context(), middleware.GetCaller(r), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.WriteError(w, err, "document_list_failed", "failed to list documents", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	doc, err := h.Service.Get(r.Context(), middleware.GetCaller(r), chi.URLParam(r, "documentID"))
	if err != nil {
		api.WriteError(w, err, "document_get_failed", "failed to load document", reqID)
		return
	}
	api.Success(w, doc, reqID)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	if !caller.Authenticated() {
		api.WriteError(w, identity.ErrUnauthenticated, "unauthorized", "authentication required", reqID)
		return
	}
	var payload documents.UploadInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	doc, err := h.Service.Upload(r.Context(), caller, payload)
	if err != nil {
		api.WriteError(w, err, "document_upload_failed", "failed to upload document", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionUpload, EntityType: entityType, EntityID: doc.ID, After: doc,
	})
	api.Created(w, doc, reqID)
}

// handleDelete removes the record only; the stored object is left in place.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller := middleware.GetCaller(r)
	id := chi.URLParam(r, "documentID")

	before, _ := h.Service.Get(r.Context(), caller, id)
	if err := h.Service.Delete(r.Context(), caller, id); err != nil {
		api.WriteError(w, err, "document_delete_failed", "failed to delete document", reqID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action: audit.ActionDelete, EntityType: entityType, EntityID: id, Before: before,
	})
	api.Acknowledge(w, reqID)
}
