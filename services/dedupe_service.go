package services

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"playtest_server/models"
)

// DedupeService removes tickets that assign the same game to the same player
// more than once, keeping the oldest ticket of every group.
type DedupeService struct {
	Store PlaytestStore
}

// FindDuplicates groups tickets by (player, game). Groups are returned in the
// order their first ticket was seen; tickets without a player or game are
// ignored. The second return value is the number of distinct pairs.
func FindDuplicates(tickets []models.PlaytestTicket) ([]models.DuplicateGroup, int) {
	byKey := map[pairKey][]models.PlaytestTicket{}
	var order []pairKey

	for _, t := range tickets {
		if t.PlayerID == "" || t.GameID == "" {
			continue
		}
		key := pairKey{gameID: t.GameID, playerID: t.PlayerID}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], t)
	}

	var groups []models.DuplicateGroup
	for _, key := range order {
		list := byKey[key]
		if len(list) < 2 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedTime.Before(list[j].CreatedTime)
		})
		groups = append(groups, models.DuplicateGroup{
			Key:     key.playerID + "_" + key.gameID,
			Keep:    list[0],
			Discard: list[1:],
		})
	}
	return groups, len(order)
}

// Plan lists every ticket and works out which ones would be deleted. A
// partial listing is still planned; the fetch error is recorded on the report.
func (s *DedupeService) Plan(ctx context.Context) (*models.DedupeReport, error) {
	log.Info().Msg("🔍 Analyzing playtest tickets for duplicates")

	tickets, err := s.Store.ListAllAssignmentRecords(ctx)
	report := &models.DedupeReport{Mode: models.ModeSimulate}
	if err != nil {
		var fetchErr *RemoteFetchError
		if !errors.As(err, &fetchErr) {
			return nil, err
		}
		log.Warn().Err(err).Int("tickets", len(tickets)).Msg("⚠️ Ticket listing incomplete, planning on partial data")
		report.FetchError = err.Error()
	}

	report.TicketsFound = len(tickets)
	report.Groups, report.UniquePairs = FindDuplicates(tickets)

	log.Info().Int("tickets", report.TicketsFound).Int("uniquePairs", report.UniquePairs).
		Int("duplicateGroups", len(report.Groups)).Msg("📊 Duplicate analysis complete")
	return report, nil
}

// Apply deletes the planned duplicates. Individual failures are counted and
// do not stop the pass.
func (s *DedupeService) Apply(ctx context.Context, report *models.DedupeReport) {
	report.Mode = models.ModeLive
	for _, t := range report.ToDelete() {
		if err := s.Store.DeleteRecord(ctx, t.RecordID); err != nil {
			log.Error().Err(err).Str("playtestId", t.PlaytestID).Msg("❌ Failed to delete duplicate ticket")
			report.DeleteFailed++
			continue
		}
		log.Info().Str("playtestId", t.PlaytestID).Str("recordId", t.RecordID).Msg("🗑️ Deleted duplicate ticket")
		report.Deleted++
	}
	log.Info().Int("deleted", report.Deleted).Int("failed", report.DeleteFailed).Msg("🎯 Deletion results")
}

// Run plans and, in live mode, applies the deduplication
func (s *DedupeService) Run(ctx context.Context, mode models.Mode) (*models.DedupeReport, error) {
	report, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}
	if mode.IsLive() {
		s.Apply(ctx, report)
	}
	return report, nil
}
