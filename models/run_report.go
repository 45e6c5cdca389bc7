package models

import "time"

// PlayerCount is the number of assignments a player received
type PlayerCount struct {
	PlayerEmail string `json:"playerEmail"`
	Count       int    `json:"count"`
}

// GameCount is the number of playtests a game received
type GameCount struct {
	GameName string `json:"gameName"`
	Count    int    `json:"count"`
}

// RunReport summarises one assignment run
type RunReport struct {
	RunID           string             `json:"runId"`
	Mode            Mode               `json:"mode"`
	StartedAt       time.Time          `json:"startedAt"`
	DemandRecords   int                `json:"demandRecords"`
	GamesInPool     int                `json:"gamesInPool"`
	PlayersInPool   int                `json:"playersInPool"`
	GamesProcessed  int                `json:"gamesProcessed"`
	Attempts        int                `json:"attempts"`
	SkippedGames    []GameSlot         `json:"skippedGames"`
	Results         []AssignmentResult `json:"results"`
	Created         int                `json:"created"`
	Failed          int                `json:"failed"`
	TopPlayers      []PlayerCount      `json:"topPlayers"`
	GameCounts      []GameCount        `json:"gameCounts"`
	FetchError      string             `json:"fetchError,omitempty"`      // Set when demand was only partially fetched
	TicketsInStore  int                `json:"ticketsInStore,omitempty"`  // Post-run verification count, live mode only
	VerificationErr string             `json:"verificationErr,omitempty"` // Set when the post-run count failed
}

// DuplicateGroup is a set of tickets sharing the same player and game
type DuplicateGroup struct {
	Key     string           `json:"key"`
	Keep    PlaytestTicket   `json:"keep"`
	Discard []PlaytestTicket `json:"discard"`
}

// DedupeReport summarises one deduplication pass
type DedupeReport struct {
	Mode          Mode             `json:"mode"`
	TicketsFound  int              `json:"ticketsFound"`
	UniquePairs   int              `json:"uniquePairs"`
	Groups        []DuplicateGroup `json:"groups"`
	Deleted       int              `json:"deleted"`
	DeleteFailed  int              `json:"deleteFailed"`
	FetchError    string           `json:"fetchError,omitempty"`
	TicketsRemain int              `json:"ticketsRemain,omitempty"`
}

// ToDelete returns every ticket marked for deletion across all groups
func (r *DedupeReport) ToDelete() []PlaytestTicket {
	var tickets []PlaytestTicket
	for _, g := range r.Groups {
		tickets = append(tickets, g.Discard...)
	}
	return tickets
}
