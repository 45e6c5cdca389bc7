package services

import (
	"context"
	"fmt"

	"playtest_server/models"
)

// PlaytestStore is the backing store the assignment and dedupe passes talk to.
type PlaytestStore interface {
	// FetchEligibleDemand returns every demand record with TicketsNeeded > 0.
	// On a page failure it returns the records collected so far together with
	// a *RemoteFetchError.
	FetchEligibleDemand(ctx context.Context) ([]models.DemandRecord, error)
	CreateAssignmentRecord(ctx context.Context, gameID, playerID string) (models.PlaytestTicket, error)
	DeleteRecord(ctx context.Context, recordID string) error
	ListAllAssignmentRecords(ctx context.Context) ([]models.PlaytestTicket, error)
}

// RemoteFetchError is returned when a paginated read stops early
type RemoteFetchError struct {
	Table string
	Page  int
	Err   error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch page %d of table '%s': %v", e.Page, e.Table, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// RemoteWriteError is returned when a create or delete is rejected
type RemoteWriteError struct {
	Op       string // "create" or "delete"
	Table    string
	RecordID string
	Err      error
}

func (e *RemoteWriteError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("failed to %s record '%s' in table '%s': %v", e.Op, e.RecordID, e.Table, e.Err)
	}
	return fmt.Sprintf("failed to %s record in table '%s': %v", e.Op, e.Table, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}
