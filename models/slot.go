package models

// GameSlot is one unit of demand on the game side of the pool.
type GameSlot struct {
	GameID     string `json:"gameId"`
	GameName   string `json:"gameName"`
	OwnerID    string `json:"ownerId"`
	OwnerEmail string `json:"ownerEmail"`
}

// PlayerSlot is one unit of demand on the player side of the pool.
type PlayerSlot struct {
	PlayerID    string `json:"playerId"`
	PlayerEmail string `json:"playerEmail"`
}
