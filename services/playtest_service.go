package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"playtest_server/models"
)

// PlaytestService runs the assignment pass end to end
type PlaytestService struct {
	Store    PlaytestStore
	Shuffler Shuffler       // nil means a random shuffle
	Observer MatchObserver  // optional step observer
	Archiver ReportArchiver // optional, reports are archived after every run
}

// Run fetches demand, expands and shuffles the pools, matches them and builds
// the report. Tickets are written only when mode is live. A partial demand
// fetch is not fatal: the run continues on the records that were read and the
// report carries the fetch error.
func (s *PlaytestService) Run(ctx context.Context, mode models.Mode) (*models.RunReport, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	logger := log.With().Str("runId", runID).Str("mode", string(mode)).Logger()
	logger.Info().Msg("🎯 Starting circular assignment")

	demand, err := s.Store.FetchEligibleDemand(ctx)
	fetchErr := ""
	if err != nil {
		var remoteErr *RemoteFetchError
		if !errors.As(err, &remoteErr) {
			return nil, err
		}
		logger.Warn().Err(err).Int("records", len(demand)).Msg("⚠️ Demand fetch incomplete, continuing with partial data")
		fetchErr = err.Error()
	}

	games, players := ExpandDemand(demand, s.Shuffler)
	logger.Info().Int("games", len(games)).Int("players", len(players)).Msg("📊 Pools ready")

	matcher := &Matcher{Observer: s.Observer}
	if mode.IsLive() {
		matcher.Writer = s.Store
	}
	result := matcher.Match(ctx, games, players)

	report := BuildRunReport(runID, mode, startedAt, demand, games, players, result)
	report.FetchError = fetchErr
	logger.Info().Int("assignments", len(report.Results)).Int("gamesProcessed", report.GamesProcessed).
		Int("attempts", report.Attempts).Int("skippedGames", len(report.SkippedGames)).
		Int("created", report.Created).Int("failed", report.Failed).Msg("🎯 Assignment results")

	if mode.IsLive() {
		s.verify(ctx, report)
	}
	s.archive(ctx, report)
	return report, nil
}

// CountTickets returns the number of tickets currently in the store
func (s *PlaytestService) CountTickets(ctx context.Context) (int, error) {
	tickets, err := s.Store.ListAllAssignmentRecords(ctx)
	return len(tickets), err
}

func (s *PlaytestService) verify(ctx context.Context, report *models.RunReport) {
	count, err := s.CountTickets(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Could not fetch final ticket count")
		report.VerificationErr = err.Error()
		return
	}
	report.TicketsInStore = count
	log.Info().Int("tickets", count).Msg("📋 Tickets in store after run")
}

func (s *PlaytestService) archive(ctx context.Context, report *models.RunReport) {
	if s.Archiver == nil {
		return
	}
	key, err := s.Archiver.ArchiveRunReport(ctx, report)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to archive run report")
		return
	}
	log.Info().Str("key", key).Msg("🗄️ Run report archived")
}
