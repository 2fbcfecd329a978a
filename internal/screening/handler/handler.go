package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetgate/internal/screening/metrics"
	"vetgate/internal/screening/models"
	"vetgate/internal/screening/pipeline"
	id "vetgate/pkg/domain"
	dErrors "vetgate/pkg/domain-errors"
	"vetgate/pkg/platform/httputil"
	"vetgate/pkg/platform/sentinel"
	"vetgate/pkg/requestcontext"
)

// Service defines the interface for screening operations.
type Service interface {
	Run(ctx context.Context, caseID id.CaseID, intake models.Intake) (*pipeline.Result, error)
	Lookup(ctx context.Context, caseID id.CaseID) (models.Case, error)
}

// Handler wires screening endpoints to the pipeline service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a screening handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/workflows/screening/full", h.HandleScreenFull)
	r.Get("/cases/{caseID}", h.HandleGetCase)
}

// HandleScreenFull handles POST /workflows/screening/full requests.
func (h *Handler) HandleScreenFull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScreenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Run(ctx, req.ParsedCaseID(), req.Intake)
	if err != nil {
		h.logger.ErrorContext(ctx, "screening run failed",
			"request_id", requestID,
			"case_id", req.CaseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "screening completed",
		"request_id", requestID,
		"case_id", result.CaseID,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGetCase handles GET /cases/{caseID} requests.
func (h *Handler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cs, err := h.service.Lookup(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "case not found"))
			return
		}
		h.logger.ErrorContext(ctx, "case lookup failed",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCase(cs))
}
