package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"playtest_server/models"
)

// memoryStore is an in-memory PlaytestStore for tests
type memoryStore struct {
	demand   []models.DemandRecord
	tickets  []models.PlaytestTicket
	fetchErr error
	listErr  error

	failCreate func(gameID, playerID string) bool
	failDelete map[string]bool

	creates int
	deletes int
	nextID  int
	clock   time.Time
}

func newMemoryStore(demand ...models.DemandRecord) *memoryStore {
	return &memoryStore{
		demand:     demand,
		failDelete: map[string]bool{},
		clock:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) FetchEligibleDemand(context.Context) ([]models.DemandRecord, error) {
	var out []models.DemandRecord
	for _, d := range m.demand {
		if d.TicketsNeeded > 0 {
			out = append(out, d)
		}
	}
	return out, m.fetchErr
}

func (m *memoryStore) CreateAssignmentRecord(_ context.Context, gameID, playerID string) (models.PlaytestTicket, error) {
	m.creates++
	if m.failCreate != nil && m.failCreate(gameID, playerID) {
		return models.PlaytestTicket{}, &RemoteWriteError{Op: "create", Table: models.TicketsTable, Err: errors.New("airtable error 422")}
	}
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	ticket := models.PlaytestTicket{
		RecordID:    fmt.Sprintf("rec%03d", m.nextID),
		PlaytestID:  fmt.Sprintf("pt-%03d", m.nextID),
		GameID:      gameID,
		PlayerID:    playerID,
		CreatedTime: m.clock,
	}
	m.tickets = append(m.tickets, ticket)
	return ticket, nil
}

func (m *memoryStore) DeleteRecord(_ context.Context, recordID string) error {
	m.deletes++
	if m.failDelete[recordID] {
		return &RemoteWriteError{Op: "delete", Table: models.TicketsTable, RecordID: recordID, Err: errors.New("airtable error 404")}
	}
	for i, t := range m.tickets {
		if t.RecordID == recordID {
			m.tickets = append(m.tickets[:i], m.tickets[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryStore) ListAllAssignmentRecords(context.Context) ([]models.PlaytestTicket, error) {
	out := make([]models.PlaytestTicket, len(m.tickets))
	copy(out, m.tickets)
	return out, m.listErr
}

type skipEvent struct {
	playerIndex int
	reason      string
}

type matchEvent struct {
	result      models.AssignmentResult
	playerIndex int
	wrapped     bool
}

// recordingObserver keeps every matcher notification
type recordingObserver struct {
	started int
	skips   []skipEvent
	wraps   int
	matches []matchEvent
	skipped []models.GameSlot
}

func (r *recordingObserver) GameStarted(int, models.GameSlot) {
	r.started++
}

func (r *recordingObserver) CandidateSkipped(_ models.GameSlot, _ models.PlayerSlot, playerIndex int, reason string) {
	r.skips = append(r.skips, skipEvent{playerIndex: playerIndex, reason: reason})
}

func (r *recordingObserver) WrappedAround(models.GameSlot) {
	r.wraps++
}

func (r *recordingObserver) Matched(result models.AssignmentResult, playerIndex int, wrapped bool) {
	r.matches = append(r.matches, matchEvent{result: result, playerIndex: playerIndex, wrapped: wrapped})
}

func (r *recordingObserver) GameSkipped(game models.GameSlot) {
	r.skipped = append(r.skipped, game)
}

func demandRecord(game, owner string, needed int) models.DemandRecord {
	return models.DemandRecord{
		RecordID:      "rec-" + game,
		GameID:        game,
		GameName:      "Game " + game,
		OwnerID:       owner,
		OwnerEmail:    owner + "@example.com",
		TicketsNeeded: needed,
	}
}

func gameSlot(game, owner string) models.GameSlot {
	return models.GameSlot{GameID: game, GameName: "Game " + game, OwnerID: owner, OwnerEmail: owner + "@example.com"}
}

func playerSlot(player string) models.PlayerSlot {
	return models.PlayerSlot{PlayerID: player, PlayerEmail: player + "@example.com"}
}

// pairsOf renders accepted assignments as "game:player"
func pairsOf(r *MatchResult) []string {
	out := make([]string, 0, len(r.Results))
	for _, a := range r.Assignments() {
		out = append(out, a.GameID+":"+a.PlayerID)
	}
	return out
}
