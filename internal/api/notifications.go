package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/trustnotify/internal/auth"
	"github.com/dmitrymomot/trustnotify/internal/dispatch"
	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/internal/store"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	dispatcher Dispatcher
	records    Records
	verifier   Verifier
	inbox      Subscriber
	origins    []string
	log        *slog.Logger
}

// SendRequest is the body of POST /api/notifications/send.
type SendRequest struct {
	EventType notification.EventType `json:"eventType"`
	Priority  notification.Priority  `json:"priority,omitempty"`
	Message   *string                `json:"message,omitempty"`
	Meta      notification.Meta      `json:"meta,omitempty"`
}

// Validate reports field problems as a ValidationError.
func (r SendRequest) Validate() error {
	verr := ValidationError{}
	if r.EventType == "" {
		verr.Add("eventType", "is required")
	}
	if r.Priority != "" && !r.Priority.Valid() {
		verr.Add("priority", "must be one of CRITICAL, HIGH, NORMAL")
	}
	if len(verr) > 0 {
		return verr
	}
	return nil
}

// RecordView is a record as returned to its owner.
type RecordView struct {
	notification.Record
	SignatureValid bool `json:"signatureValid"`
}

func (h *handlers) view(rec notification.Record) RecordView {
	return RecordView{
		Record:         rec,
		SignatureValid: h.verifier.Verify(rec.SignaturePayload(), rec.Signature),
	}
}

func (h *handlers) send(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req SendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, ErrBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	rec, err := h.dispatcher.Dispatch(r.Context(), dispatch.Request{
		User:      user,
		EventType: req.EventType,
		Priority:  req.Priority,
		Message:   req.Message,
		Meta:      req.Meta,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrInvalidPriority) || errors.Is(err, dispatch.ErrMissingEventType) ||
			errors.Is(err, dispatch.ErrInvalidText) {
			respondError(w, ValidationError{"request": {err.Error()}})
			return
		}
		h.log.ErrorContext(r.Context(), "send notification failed",
			logger.UserID(user.ID),
			logger.EventType(req.EventType),
			logger.Error(err),
		)
		respondError(w, err)
		return
	}

	respond(w, rec)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	recs, err := h.records.FindByUser(r.Context(), user.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list notifications failed", logger.UserID(user.ID), logger.Error(err))
		respondError(w, err)
		return
	}

	out := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, h.view(rec))
	}
	respond(w, out)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	rec, err := h.records.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, ErrNotFound)
			return
		}
		h.log.ErrorContext(r.Context(), "get notification failed",
			logger.UserID(user.ID),
			logger.NotificationID(id),
			logger.Error(err),
		)
		respondError(w, err)
		return
	}
	respond(w, h.view(rec))
}
