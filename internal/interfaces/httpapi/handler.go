package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
	"github.com/riskibarqy/hoops-hub/internal/platform/resilience"
	"github.com/riskibarqy/hoops-hub/internal/usecase"
)

// FetchHealth exposes the fetch chain's per-strategy breaker states.
type FetchHealth interface {
	BreakerStates() map[string]resilience.CircuitState
}

type Handler struct {
	queries      *usecase.SeasonQueryService
	orchestrator *usecase.RefreshOrchestrator
	fetchHealth  FetchHealth
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	queries *usecase.SeasonQueryService,
	orchestrator *usecase.RefreshOrchestrator,
	fetchHealth FetchHealth,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queries:      queries,
		orchestrator: orchestrator,
		fetchHealth:  fetchHealth,
		logger:       logger.Named("httpapi"),
		validator:    validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type seasonPathParams struct {
	Season int `validate:"required,gt=0,lt=10000"`
}

type switchSeasonRequest struct {
	Season int `json:"season" validate:"required,gt=0,lt=10000"`
}

func (h *Handler) seasonFromPath(ctx context.Context, r *http.Request) (int, error) {
	raw := r.PathValue("season")
	seasonYear, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: season must be a year, got %q", usecase.ErrInvalidInput, raw)
	}
	if err := h.validateRequest(ctx, seasonPathParams{Season: seasonYear}); err != nil {
		return 0, err
	}
	return seasonYear, nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	out := healthDTO{Status: "ok"}
	if h.fetchHealth != nil {
		states := h.fetchHealth.BreakerStates()
		out.FetchStrategies = make(map[string]string, len(states))
		for name, state := range states {
			out.FetchStrategies[name] = string(state)
		}
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
