package models

// DemandRecord is one row of the demand table: a game, its owner and how many
// playtests the owner still needs (and therefore owes).
type DemandRecord struct {
	RecordID      string `dynamodbav:"recordId" json:"recordId"`           // Backing store record id
	GameID        string `dynamodbav:"gameId" json:"gameId"`               // Game needing playtests
	GameName      string `dynamodbav:"gameName" json:"gameName"`           // Display name, "Unknown" if missing
	OwnerID       string `dynamodbav:"userId" json:"ownerId"`              // Owner user id, empty if missing
	OwnerEmail    string `dynamodbav:"email" json:"ownerEmail"`            // Owner email, "Unknown" if missing
	TicketsNeeded int    `dynamodbav:"ticketsNeeded" json:"ticketsNeeded"` // Slots contributed to both pools
}

// DemandTable is the DynamoDB table name for playtest demand
const DemandTable = "PlaytestDemand"

// AirtableDemandTable is the Airtable table holding active demand records
const AirtableDemandTable = "Active YSWS Record"

// UnknownValue is the placeholder for missing names and emails
const UnknownValue = "Unknown"
