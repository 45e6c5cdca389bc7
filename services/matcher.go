package services

import (
	"context"

	"playtest_server/models"
)

// AssignmentWriter persists an accepted assignment. Only attached in live mode.
type AssignmentWriter interface {
	CreateAssignmentRecord(ctx context.Context, gameID, playerID string) (models.PlaytestTicket, error)
}

// MatchObserver is notified of every step the matcher takes
type MatchObserver interface {
	GameStarted(gameNumber int, game models.GameSlot)
	CandidateSkipped(game models.GameSlot, player models.PlayerSlot, playerIndex int, reason string)
	WrappedAround(game models.GameSlot)
	Matched(result models.AssignmentResult, playerIndex int, wrapped bool)
	GameSkipped(game models.GameSlot)
}

// MatchResult is the output of one matching pass
type MatchResult struct {
	Results        []models.AssignmentResult
	SkippedGames   []models.GameSlot
	GamesProcessed int
	Attempts       int
}

// Assignments returns the accepted assignments in the order they were made
func (r *MatchResult) Assignments() []models.Assignment {
	out := make([]models.Assignment, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, res.Assignment)
	}
	return out
}

// Matcher pairs game slots with player slots using a rotating cursor over the
// player pool. A zero Matcher runs in simulation mode with no observer.
type Matcher struct {
	Writer   AssignmentWriter
	Observer MatchObserver
}

type pairKey struct {
	gameID   string
	playerID string
}

// matchState is owned by a single Match call
type matchState struct {
	games   []models.GameSlot
	players []models.PlayerSlot

	gameIndex   int
	playerIndex int
	attempts    int
	paired      map[pairKey]struct{}

	writer   AssignmentWriter
	observer MatchObserver
	result   *MatchResult
}

// Match walks games in order and gives each one the next eligible player,
// starting from where the previous game left off and wrapping around once.
// A game with no eligible player is skipped. The outer loop runs at most
// 2*len(players) times.
func (m *Matcher) Match(ctx context.Context, games []models.GameSlot, players []models.PlayerSlot) *MatchResult {
	s := &matchState{
		games:    games,
		players:  players,
		paired:   make(map[pairKey]struct{}),
		writer:   m.Writer,
		observer: m.Observer,
		result:   &MatchResult{},
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}

	maxAttempts := 2 * len(players)
	for s.gameIndex < len(games) && s.attempts < maxAttempts {
		game := games[s.gameIndex]
		s.attempts++
		original := s.playerIndex
		s.observer.GameStarted(s.gameIndex+1, game)

		if idx := s.scan(game, s.playerIndex, len(players)); idx >= 0 {
			s.commit(ctx, game, idx, false)
			continue
		}

		s.observer.WrappedAround(game)
		// original can sit past the end after a skipped game
		if idx := s.scan(game, 0, min(original, len(players))); idx >= 0 {
			s.commit(ctx, game, idx, true)
			continue
		}

		s.observer.GameSkipped(game)
		s.result.SkippedGames = append(s.result.SkippedGames, game)
		s.gameIndex++
		s.playerIndex = original + 1
	}

	s.result.GamesProcessed = s.gameIndex
	s.result.Attempts = s.attempts
	return s.result
}

// scan returns the first eligible player index in [from, to), or -1
func (s *matchState) scan(game models.GameSlot, from, to int) int {
	for i := from; i < to; i++ {
		player := s.players[i]
		if reason := s.ineligible(game, player); reason != "" {
			s.observer.CandidateSkipped(game, player, i, reason)
			continue
		}
		return i
	}
	return -1
}

func (s *matchState) ineligible(game models.GameSlot, player models.PlayerSlot) string {
	switch {
	case player.PlayerID == game.OwnerID:
		return models.SkipReasonOwner
	case player.PlayerID == "":
		return models.SkipReasonNoPlayer
	}
	if _, ok := s.paired[pairKey{game.GameID, player.PlayerID}]; ok {
		return models.SkipReasonDuplicate
	}
	return ""
}

func (s *matchState) commit(ctx context.Context, game models.GameSlot, playerIndex int, wrapped bool) {
	player := s.players[playerIndex]
	s.paired[pairKey{game.GameID, player.PlayerID}] = struct{}{}

	res := models.AssignmentResult{
		Assignment: models.Assignment{
			GameID:      game.GameID,
			GameName:    game.GameName,
			OwnerEmail:  game.OwnerEmail,
			PlayerID:    player.PlayerID,
			PlayerEmail: player.PlayerEmail,
		},
		Status: models.OutcomeSkipped,
	}

	// a failed write keeps the assignment; the dedupe pass reconciles
	if s.writer != nil {
		ticket, err := s.writer.CreateAssignmentRecord(ctx, game.GameID, player.PlayerID)
		if err != nil {
			res.Status = models.OutcomeFailed
			res.Reason = err.Error()
		} else {
			res.Status = models.OutcomeCreated
			res.RecordID = ticket.RecordID
		}
	}

	s.result.Results = append(s.result.Results, res)
	s.observer.Matched(res, playerIndex, wrapped)
	s.gameIndex++
	s.playerIndex = playerIndex + 1
}

type nopObserver struct{}

func (nopObserver) GameStarted(int, models.GameSlot) {}
func (nopObserver) CandidateSkipped(models.GameSlot, models.PlayerSlot, int, string) {}
func (nopObserver) WrappedAround(models.GameSlot) {}
func (nopObserver) Matched(models.AssignmentResult, int, bool) {}
func (nopObserver) GameSkipped(models.GameSlot) {}

// MultiObserver fans every notification out to each observer in order
type MultiObserver []MatchObserver

func (m MultiObserver) GameStarted(gameNumber int, game models.GameSlot) {
	for _, o := range m {
		o.GameStarted(gameNumber, game)
	}
}

func (m MultiObserver) CandidateSkipped(game models.GameSlot, player models.PlayerSlot, playerIndex int, reason string) {
	for _, o := range m {
		o.CandidateSkipped(game, player, playerIndex, reason)
	}
}

func (m MultiObserver) WrappedAround(game models.GameSlot) {
	for _, o := range m {
		o.WrappedAround(game)
	}
}

func (m MultiObserver) Matched(result models.AssignmentResult, playerIndex int, wrapped bool) {
	for _, o := range m {
		o.Matched(result, playerIndex, wrapped)
	}
}

func (m MultiObserver) GameSkipped(game models.GameSlot) {
	for _, o := range m {
		o.GameSkipped(game)
	}
}
