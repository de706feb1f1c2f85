package authhandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service    *identity.Service
	Audit      *audit.Service
	CookieName string
	SessionTTL time.Duration
	Secure     bool
}

func NewHandler(service *identity.Service, auditSvc *audit.Service, cookieName string, ttl time.Duration, secure bool) *Handler {
	return &Handler{Service: service, Audit: auditSvc, CookieName: cookieName, SessionTTL: ttl, Secure: secure}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/auth/me", h.HandleMe)
}

type loginRequest struct {
	Passcode string `json:"passcode"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Passcode)
	if errors.Is(err, identity.ErrInvalidPasscode) {
		api.Fail(w, http.StatusUnauthorized, "invalid_passcode", identity.ErrInvalidPasscode.Error(), reqID)
		return
	}
	if err != nil {
		api.WriteError(w, err, "login_failed", "failed to sign in", reqID)
		return
	}

	http.SetCookie(w, h.cookie(session.Token, int(h.SessionTTL.Seconds())))
	shared.RecordAudit(r, h.Audit, audit.Entry{
		ActorID: session.User.ID, Action: audit.ActionLogin, EntityType: "user", EntityID: session.User.ID,
	})
	api.Success(w, session, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	api.Acknowledge(w, middleware.GetRequestID(r.Context()))
}

// HandleMe answers null for an anonymous request.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, err := h.Service.Me(r.Context(), middleware.GetCaller(r))
	if err != nil {
		api.WriteError(w, err, "me_failed", "failed to load user", reqID)
		return
	}
	api.Success(w, user, reqID)
}

func (h *Handler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
