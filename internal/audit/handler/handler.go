// Package handler exposes the audit trail to authority callers.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/audit"
	"shipcertify/pkg/platform/httputil"
	"shipcertify/pkg/requestcontext"
)

// Reader defines the interface for audit trail reads.
type Reader interface {
	List(ctx context.Context, actor string) ([]audit.Event, error)
	ListAll(ctx context.Context) ([]audit.Event, error)
}

type Handler struct {
	logger *slog.Logger
	reader Reader
}

func New(reader Reader, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, reader: reader}
}

// Register registers the audit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/events", h.handleListEvents)
}

// handleListEvents lists the audit trail, optionally filtered by the actor
// query parameter. Authority-only: ship owners have no business reading
// other parties' activity.
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller identity is missing"))
		return
	}
	if !caller.IsAuthority() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only an authority can read the audit trail"))
		return
	}

	var (
		events []audit.Event
		err    error
	)
	if actor := r.URL.Query().Get("actor"); actor != "" {
		events, err = h.reader.List(ctx, actor)
	} else {
		events, err = h.reader.ListAll(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}
	httputil.WriteData(w, http.StatusOK, events)
}
