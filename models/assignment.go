package models

// Assignment pairs a game slot with the player who will playtest it.
type Assignment struct {
	GameID      string `json:"gameId"`
	GameName    string `json:"gameName"`
	OwnerEmail  string `json:"ownerEmail"`
	PlayerID    string `json:"playerId"`
	PlayerEmail string `json:"playerEmail"`
}

// OutcomeStatus describes what happened to an assignment in the backing store
type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created" // Ticket written
	OutcomeFailed  OutcomeStatus = "failed"  // Write attempted and rejected
	OutcomeSkipped OutcomeStatus = "skipped" // Simulation, no write issued
)

// AssignmentResult is an assignment together with its write outcome.
type AssignmentResult struct {
	Assignment Assignment    `json:"assignment"`
	Status     OutcomeStatus `json:"status"`
	RecordID   string        `json:"recordId,omitempty"` // Set when Status is created
	Reason     string        `json:"reason,omitempty"`   // Set when Status is failed
}
