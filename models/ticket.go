package models

import "time"

// PlaytestTicket is an assignment record as stored in the backing store
type PlaytestTicket struct {
	RecordID    string    `dynamodbav:"recordId" json:"recordId"`       // PK
	PlaytestID  string    `dynamodbav:"playtestId" json:"playtestId"`   // Generated per ticket
	GameID      string    `dynamodbav:"gameToTest" json:"gameId"`       // Linked game
	PlayerID    string    `dynamodbav:"player" json:"playerId"`         // Linked player
	CreatedTime time.Time `dynamodbav:"createdTime" json:"createdTime"` // Used to pick the survivor of a duplicate group
}

// TicketsTable is the table name for playtest tickets (same in both backends)
const TicketsTable = "PlaytestTickets"
