package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/cfgo/coastfire-calculator/internal/calculation"
	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/cfgo/coastfire-calculator/internal/store"
)

// Server exposes the projection engine and the scenario store over HTTP.
// The store is optional; scenario endpoints return 503 without one.
type Server struct {
	engine *calculation.ProjectionEngine
	store  *store.ScenarioStore
	logger calculation.Logger
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ProjectionRequest carries a plan plus the scenario to run. ScenarioName
// refers to a saved scenario in the store; an inline Scenario wins when both
// are supplied. With neither, the plan's baseline assumptions run.
type ProjectionRequest struct {
	Plan         domain.Plan               `json:"plan"`
	Scenario     *domain.ScenarioOverrides `json:"scenario,omitempty"`
	ScenarioName string                    `json:"scenario_name,omitempty"`
}

// CoastFireRequest carries the inputs for a static coast-fire check.
type CoastFireRequest struct {
	Portfolio        domain.PortfolioSnapshot  `json:"portfolio"`
	Settings         domain.ProjectionSettings `json:"settings"`
	RetirementTarget *decimal.Decimal          `json:"retirement_target,omitempty"`
}

// NewServer creates an API server. A nil store disables scenario endpoints.
func NewServer(engine *calculation.ProjectionEngine, scenarios *store.ScenarioStore, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{engine: engine, store: scenarios, logger: logger}
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("coast-fire API listening on %s", addr)
	return fasthttp.ListenAndServe(addr, s.Handler())
}

// Handler returns the fasthttp request handler with all routes wired.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		switch {
		case path == "/api/v1/health" && method == fasthttp.MethodGet:
			s.handleHealth(ctx)
		case path == "/api/v1/projection" && method == fasthttp.MethodPost:
			s.handleProjection(ctx)
		case path == "/api/v1/coastfire" && method == fasthttp.MethodPost:
			s.handleCoastFire(ctx)
		case path == "/api/v1/scenarios" && method == fasthttp.MethodGet:
			s.withStore(ctx, s.handleListScenarios)
		case path == "/api/v1/scenarios" && method == fasthttp.MethodPost:
			s.withStore(ctx, s.handleSaveScenario)
		case path == "/api/v1/scenarios" && method == fasthttp.MethodDelete:
			s.withStore(ctx, s.handleDeleteScenario)
		case strings.HasSuffix(path, "/primary") && strings.HasPrefix(path, "/api/v1/scenarios/") && method == fasthttp.MethodPost:
			s.withStore(ctx, s.handleSetPrimary)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "not found")
		}
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProjection(ctx *fasthttp.RequestCtx) {
	var req ProjectionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	scenario := req.Scenario
	if scenario == nil && req.ScenarioName != "" {
		if s.store == nil {
			writeError(ctx, fasthttp.StatusServiceUnavailable, "scenario store not configured")
			return
		}
		saved, err := s.store.ByName(req.ScenarioName)
		if err != nil {
			writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("scenario %q not found", req.ScenarioName))
			return
		}
		scenario = &saved.Overrides
	}

	summary, err := s.engine.RunScenario(context.Background(), &req.Plan, scenario)
	if err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, summary)
}

func (s *Server) handleCoastFire(ctx *fasthttp.RequestCtx) {
	var req CoastFireRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := calculation.ValidateSettings(req.Settings); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}

	allocation := calculation.ResolveAllocation(req.Portfolio.ByAssetClass, nil)
	result := calculation.CoastFire(req.Settings, req.Portfolio.BreakdownTotal(), allocation, req.RetirementTarget)
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func (s *Server) handleListScenarios(ctx *fasthttp.RequestCtx) {
	scenarios, err := s.store.List()
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	if scenarios == nil {
		scenarios = []store.SavedScenario{}
	}
	writeJSON(ctx, fasthttp.StatusOK, scenarios)
}

func (s *Server) handleSaveScenario(ctx *fasthttp.RequestCtx) {
	var overrides domain.ScenarioOverrides
	if err := json.Unmarshal(ctx.PostBody(), &overrides); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if overrides.Name == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "scenario name is required")
		return
	}
	if err := calculation.ValidateScenario(overrides); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.Save(overrides)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleSetPrimary(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/v1/scenarios/"), "/primary")
	if id == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "scenario id is required")
		return
	}
	if err := s.store.SetPrimary(id); err != nil {
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteScenario(ctx *fasthttp.RequestCtx) {
	id := string(ctx.QueryArgs().Peek("id"))
	if id == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "scenario id is required")
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (s *Server) withStore(ctx *fasthttp.RequestCtx, handler func(*fasthttp.RequestCtx)) {
	if s.store == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, "scenario store not configured")
		return
	}
	handler(ctx)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(payload); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	json.NewEncoder(ctx).Encode(ErrorResponse{Status: status, Message: message})
}
