package services

import (
	"sort"
	"time"

	"playtest_server/models"
)

// topPlayersLimit caps the player leaderboard in a run report
const topPlayersLimit = 10

// BuildRunReport assembles the statistics for one matching pass
func BuildRunReport(runID string, mode models.Mode, startedAt time.Time, demand []models.DemandRecord, games []models.GameSlot, players []models.PlayerSlot, match *MatchResult) *models.RunReport {
	report := &models.RunReport{
		RunID:          runID,
		Mode:           mode,
		StartedAt:      startedAt,
		DemandRecords:  len(demand),
		GamesInPool:    len(games),
		PlayersInPool:  len(players),
		GamesProcessed: match.GamesProcessed,
		Attempts:       match.Attempts,
		SkippedGames:   match.SkippedGames,
		Results:        match.Results,
	}

	for _, res := range match.Results {
		switch res.Status {
		case models.OutcomeCreated:
			report.Created++
		case models.OutcomeFailed:
			report.Failed++
		}
	}

	report.TopPlayers = TopPlayers(match.Assignments(), topPlayersLimit)
	report.GameCounts = GameCounts(match.Assignments())
	return report
}

// TopPlayers counts assignments per player email, busiest first. limit <= 0
// returns every player.
func TopPlayers(assignments []models.Assignment, limit int) []models.PlayerCount {
	counts := map[string]int{}
	for _, a := range assignments {
		counts[a.PlayerEmail]++
	}

	out := make([]models.PlayerCount, 0, len(counts))
	for email, n := range counts {
		out = append(out, models.PlayerCount{PlayerEmail: email, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PlayerEmail < out[j].PlayerEmail
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GameCounts counts playtests per game name, most tested first
func GameCounts(assignments []models.Assignment) []models.GameCount {
	counts := map[string]int{}
	for _, a := range assignments {
		counts[a.GameName]++
	}

	out := make([]models.GameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.GameCount{GameName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].GameName < out[j].GameName
	})
	return out
}
