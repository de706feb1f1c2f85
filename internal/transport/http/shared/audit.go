package shared

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/requestctx"
)

// RecordAudit stores entry for the request's caller unless the entry names
// its own actor. Failures are logged and never fail the request.
func RecordAudit(r *http.Request, svc *audit.Service, entry audit.Entry) {
	if svc == nil {
		return
	}
	ctx := r.Context()
	entry.RequestID = requestctx.GetRequestID(ctx)
	entry.IP = r.RemoteAddr
	if err := svc.RecordFor(ctx, requestctx.GetCaller(ctx), entry); err != nil {
		log.Warn().Err(err).
			Str("action", entry.Action).
			Str("entityType", entry.EntityType).
			Str("entityId", entry.EntityID).
			Msg("audit record failed")
	}
}
