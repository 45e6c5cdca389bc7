package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"playtest_server/models"
	"playtest_server/services"
	"playtest_server/utils"
)

// AssignmentRunner runs assignment passes and counts tickets
type AssignmentRunner interface {
	Run(ctx context.Context, mode models.Mode) (*models.RunReport, error)
	CountTickets(ctx context.Context) (int, error)
}

// DuplicatePlanner works out which tickets a dedupe pass would delete
type DuplicatePlanner interface {
	Plan(ctx context.Context) (*models.DedupeReport, error)
}

// RunListener is told about every finished run
type RunListener interface {
	RunFinished(report *models.RunReport)
}

// ReportLinker generates read links for archived run reports
type ReportLinker interface {
	ReportURL(ctx context.Context, key string) (string, error)
}

// PlaytestController handles HTTP requests for playtest assignment
type PlaytestController struct {
	Runner   AssignmentRunner
	Planner  DuplicatePlanner
	Listener RunListener
	Reports  ReportLinker // nil when no archive bucket is configured
}

// NewPlaytestController creates a new PlaytestController instance
func NewPlaytestController(runner AssignmentRunner, planner DuplicatePlanner, listener RunListener, reports ReportLinker) *PlaytestController {
	return &PlaytestController{Runner: runner, Planner: planner, Listener: listener, Reports: reports}
}

// Simulate runs the full assignment pass without writing tickets
func (pc *PlaytestController) Simulate(w http.ResponseWriter, r *http.Request) {
	if mode := r.URL.Query().Get("mode"); mode != "" && models.Mode(mode) != models.ModeSimulate {
		utils.WriteError(w, http.StatusForbidden, "live runs are only available from the command line")
		return
	}

	report, err := pc.Runner.Run(r.Context(), models.ModeSimulate)
	if err != nil {
		log.Error().Err(err).Msg("❌ Simulation failed")
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	if pc.Listener != nil {
		pc.Listener.RunFinished(report)
	}
	utils.WriteJSONResponse(w, http.StatusOK, report)
}

// Duplicates returns the dedupe plan without deleting anything
func (pc *PlaytestController) Duplicates(w http.ResponseWriter, r *http.Request) {
	report, err := pc.Planner.Plan(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("❌ Duplicate analysis failed")
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, report)
}

// TicketCount returns the number of tickets in the store
func (pc *PlaytestController) TicketCount(w http.ResponseWriter, r *http.Request) {
	count, err := pc.Runner.CountTickets(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]int{"tickets": count})
}

// ReportURL returns a presigned read URL for an archived run report
func (pc *PlaytestController) ReportURL(w http.ResponseWriter, r *http.Request) {
	if pc.Reports == nil {
		utils.WriteError(w, http.StatusNotFound, "report archive is not configured")
		return
	}

	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, err := pc.Reports.ReportURL(r.Context(), payload.Key)
	if errors.Is(err, services.ErrNotAReport) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Str("key", payload.Key).Msg("❌ Failed to generate report URL")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate report URL")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
