package services

import (
	"github.com/rs/zerolog"

	"playtest_server/models"
)

// StepLogger logs every matcher step. Skips are logged at debug level.
type StepLogger struct {
	Logger zerolog.Logger
}

func (l StepLogger) GameStarted(gameNumber int, game models.GameSlot) {
	l.Logger.Info().Int("game", gameNumber).Str("gameName", game.GameName).Str("owner", game.OwnerEmail).
		Msg("🎮 Looking for player")
}

func (l StepLogger) CandidateSkipped(game models.GameSlot, player models.PlayerSlot, playerIndex int, reason string) {
	l.Logger.Debug().Str("gameName", game.GameName).Str("player", player.PlayerEmail).Int("playerIndex", playerIndex).
		Str("reason", reason).Msg("⚠️ Skipping candidate")
}

func (l StepLogger) WrappedAround(game models.GameSlot) {
	l.Logger.Debug().Str("gameName", game.GameName).Msg("🔄 Wrapping around to start of player list")
}

func (l StepLogger) Matched(result models.AssignmentResult, playerIndex int, wrapped bool) {
	a := result.Assignment
	switch result.Status {
	case models.OutcomeCreated:
		l.Logger.Info().Str("player", a.PlayerEmail).Str("gameName", a.GameName).Int("playerIndex", playerIndex).
			Bool("wrapped", wrapped).Str("recordId", result.RecordID).Msg("✅ Assigned, ticket created")
	case models.OutcomeFailed:
		l.Logger.Error().Str("player", a.PlayerEmail).Str("gameName", a.GameName).Int("playerIndex", playerIndex).
			Bool("wrapped", wrapped).Str("reason", result.Reason).Msg("❌ Assigned, failed to create ticket")
	default:
		l.Logger.Info().Str("player", a.PlayerEmail).Str("gameName", a.GameName).Int("playerIndex", playerIndex).
			Bool("wrapped", wrapped).Msg("🎫 [SIMULATION] Would create ticket")
	}
}

func (l StepLogger) GameSkipped(game models.GameSlot) {
	l.Logger.Warn().Str("gameName", game.GameName).Str("owner", game.OwnerEmail).
		Msg("❌ Could not find suitable player after full circle")
}
