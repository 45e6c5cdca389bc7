package models

// Mode selects whether a run may write to the backing store
type Mode string

const (
	ModeSimulate Mode = "simulate"
	ModeLive     Mode = "live"
)

// IsLive reports whether writes are allowed
func (m Mode) IsLive() bool {
	return m == ModeLive
}

// Backend names accepted by PLAYTEST_BACKEND
const (
	BackendAirtable = "airtable"
	BackendDynamo   = "dynamodb"
)

// Skip reasons reported while scanning candidates
const (
	SkipReasonOwner     = "owner"
	SkipReasonNoPlayer  = "no_player_id"
	SkipReasonDuplicate = "already_assigned"
)
