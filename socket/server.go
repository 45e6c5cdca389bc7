package socket

import (
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"playtest_server/models"
)

// Progress feed events
const (
	EventAssignment  = "assignment"
	EventGameSkipped = "gameSkipped"
	EventRunFinished = "runFinished"
)

// NewSocketServer initializes and returns a new Socket.IO server
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Info().Str("id", c.ID()).Msg("✅ Socket connected")
		return nil
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Warn().Err(err).Msg("⚠️ Socket error")
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Info().Str("id", c.ID()).Str("reason", reason).Msg("❌ Socket disconnected")
	})

	return server
}

// Broadcaster sends an event to every client of a namespace
type Broadcaster interface {
	BroadcastToNamespace(namespace string, event string, args ...interface{}) bool
}

// ProgressFeed streams matcher progress to connected dashboards. It only
// reports assignments and skipped games; per-candidate skips are too chatty.
type ProgressFeed struct {
	Server Broadcaster
}

func (p *ProgressFeed) GameStarted(int, models.GameSlot) {}

func (p *ProgressFeed) CandidateSkipped(models.GameSlot, models.PlayerSlot, int, string) {}

func (p *ProgressFeed) WrappedAround(models.GameSlot) {}

func (p *ProgressFeed) Matched(result models.AssignmentResult, playerIndex int, wrapped bool) {
	p.Server.BroadcastToNamespace("/", EventAssignment, map[string]interface{}{
		"result":      result,
		"playerIndex": playerIndex,
		"wrapped":     wrapped,
	})
}

func (p *ProgressFeed) GameSkipped(game models.GameSlot) {
	p.Server.BroadcastToNamespace("/", EventGameSkipped, game)
}

// RunFinished announces the end of a run with its summary counts
func (p *ProgressFeed) RunFinished(report *models.RunReport) {
	p.Server.BroadcastToNamespace("/", EventRunFinished, map[string]interface{}{
		"runId":        report.RunID,
		"mode":         report.Mode,
		"assignments":  len(report.Results),
		"skippedGames": len(report.SkippedGames),
	})
}
