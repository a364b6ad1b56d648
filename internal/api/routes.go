package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"healthsync/internal/domain"
)

const maxHistoryLimit = 500

type RecordResponse struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status"`
	SyncedCount  int       `json:"synced_count"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
}

type HistoryResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}

type AutoSyncResponse struct {
	Mode     string `json:"mode"`
	Interval string `json:"interval,omitempty"`
}

type StatusResponse struct {
	Status        domain.SyncStatus `json:"status"`
	AutoSync      AutoSyncResponse  `json:"auto_sync"`
	LastSuccess   *time.Time        `json:"last_success,omitempty"`
	QueuedSamples int               `json:"queued_samples"`
}

type FrequencyRequest struct {
	Frequency string `json:"frequency"`
}

type RestoredResponse struct {
	Synced int `json:"synced"`
}

type Routes struct {
	ctx    context.Context
	syncer Syncer
	logger *slog.Logger
}

// Router returns the /v1 routes.
func Router(ctx context.Context, syncer Syncer, logger *slog.Logger) http.Handler {
	routes := &Routes{ctx: ctx, syncer: syncer, logger: logger.With("component", "api")}

	r := chi.NewRouter()
	r.Post("/sync", routes.sync)
	r.Get("/status", routes.status)
	r.Get("/history", routes.history)
	r.Route("/autosync", func(r chi.Router) {
		r.Post("/start", routes.startAutoSync)
		r.Post("/stop", routes.stopAutoSync)
		r.Put("/frequency", routes.setFrequency)
	})
	r.Post("/network/restored", routes.networkRestored)
	return r
}

func toRecordResponse(rec domain.SyncRecord) RecordResponse {
	return RecordResponse{
		ID:           rec.ID.String(),
		Timestamp:    rec.Timestamp,
		Status:       string(rec.Status),
		SyncedCount:  rec.SyncedCount,
		ErrorMessage: rec.ErrorMessage,
		DurationMS:   rec.Duration.Milliseconds(),
	}
}

func toAutoSyncResponse(mode domain.AutoSyncMode) AutoSyncResponse {
	resp := AutoSyncResponse{Mode: string(mode.Kind)}
	if mode.Interval > 0 {
		resp.Interval = mode.Interval.String()
	}
	return resp
}

// workContext keeps request values but follows the server lifetime, so a
// client that disconnects does not cancel a pass or a drain.
func (rt *Routes) workContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(context.WithoutCancel(r.Context()))
	stop := context.AfterFunc(rt.ctx, func() {
		cancel(context.Cause(rt.ctx))
	})
	return ctx, func() {
		stop()
		cancel(nil)
	}
}

func (rt *Routes) sync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := rt.workContext(r)
	defer cancel()

	rec, err := rt.syncer.PerformManualSync(ctx)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		writeError(w, err.Error(), http.StatusConflict)
	case err != nil && rec != nil:
		// the pass ran and failed; its record carries the error
		writeJSON(w, toRecordResponse(*rec), http.StatusBadGateway)
	case err != nil:
		rt.logger.Error("manual sync failed", "error", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, toRecordResponse(*rec), http.StatusOK)
	}
}

func (rt *Routes) status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:        rt.syncer.Status(),
		AutoSync:      toAutoSyncResponse(rt.syncer.AutoSyncMode()),
		QueuedSamples: rt.syncer.QueuedSamples(),
	}

	at, ok, err := rt.syncer.LastSuccessfulSync(r.Context())
	if err != nil {
		rt.logger.Warn("failed to read last successful sync", "error", err)
	}
	if ok {
		resp.LastSuccess = &at
	}

	writeJSON(w, resp, http.StatusOK)
}

func (rt *Routes) history(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, "limit must be between 1 and "+strconv.Itoa(maxHistoryLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := rt.syncer.History(r.Context(), limit)
	if err != nil {
		rt.logger.Error("failed to list history", "error", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := HistoryResponse{Records: make([]RecordResponse, 0, len(records)), Total: len(records)}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	writeJSON(w, resp, http.StatusOK)
}

func (rt *Routes) startAutoSync(w http.ResponseWriter, _ *http.Request) {
	// the loop must outlive this request
	if err := rt.syncer.StartAutoSync(rt.ctx); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrObservationUnsupported) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, err.Error(), status)
		return
	}
	writeJSON(w, toAutoSyncResponse(rt.syncer.AutoSyncMode()), http.StatusOK)
}

func (rt *Routes) stopAutoSync(w http.ResponseWriter, _ *http.Request) {
	rt.syncer.StopAutoSync()
	writeJSON(w, toAutoSyncResponse(rt.syncer.AutoSyncMode()), http.StatusOK)
}

func (rt *Routes) setFrequency(w http.ResponseWriter, r *http.Request) {
	var req FrequencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	f := domain.SyncFrequency(req.Frequency)
	if !f.Valid() {
		writeError(w, "unknown sync frequency "+strconv.Quote(req.Frequency), http.StatusBadRequest)
		return
	}

	// a restarted trigger loop must outlive this request
	if err := rt.syncer.SetFrequency(rt.ctx, f); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrObservationUnsupported) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, err.Error(), status)
		return
	}
	writeJSON(w, toAutoSyncResponse(rt.syncer.AutoSyncMode()), http.StatusOK)
}

func (rt *Routes) networkRestored(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := rt.workContext(r)
	defer cancel()

	synced, err := rt.syncer.NetworkRestored(ctx)
	if err != nil {
		rt.logger.Warn("retry queue drain incomplete", "synced", synced, "error", err)
		writeJSON(w, map[string]any{"synced": synced, "error": err.Error()}, http.StatusBadGateway)
		return
	}
	writeJSON(w, RestoredResponse{Synced: synced}, http.StatusOK)
}
