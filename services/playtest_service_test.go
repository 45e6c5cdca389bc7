package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playtest_server/models"
)

type fakeArchiver struct {
	reports []*models.RunReport
	err     error
}

func (f *fakeArchiver) ArchiveRunReport(_ context.Context, report *models.RunReport) (string, error) {
	f.reports = append(f.reports, report)
	return "playtest-runs/" + report.RunID + ".json", f.err
}

func threeOwnerStore() *memoryStore {
	return newMemoryStore(
		demandRecord("A", "U1", 1),
		demandRecord("B", "U2", 1),
		demandRecord("C", "U3", 1),
		demandRecord("D", "U4", 0),
	)
}

func TestRunSimulationWritesNothing(t *testing.T) {
	store := threeOwnerStore()
	archiver := &fakeArchiver{}
	svc := &PlaytestService{Store: store, Shuffler: NoShuffle, Archiver: archiver}

	report, err := svc.Run(context.Background(), models.ModeSimulate)
	require.NoError(t, err)

	assert.Equal(t, models.ModeSimulate, report.Mode)
	assert.Equal(t, 3, report.DemandRecords)
	assert.Len(t, report.Results, 3)
	assert.Zero(t, report.Created)
	assert.Zero(t, store.creates)
	assert.Zero(t, report.TicketsInStore)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, archiver.reports, 1)
	assert.Same(t, report, archiver.reports[0])
}

func TestRunLiveCreatesTicketsAndVerifies(t *testing.T) {
	store := threeOwnerStore()
	obs := &recordingObserver{}
	svc := &PlaytestService{Store: store, Shuffler: NoShuffle, Observer: obs}

	report, err := svc.Run(context.Background(), models.ModeLive)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 3, store.creates)
	assert.Equal(t, 3, report.TicketsInStore)
	assert.Empty(t, report.VerificationErr)
	assert.Len(t, obs.matches, 3)
	for _, res := range report.Results {
		assert.Equal(t, models.OutcomeCreated, res.Status)
		assert.NotEmpty(t, res.RecordID)
	}
}

func TestRunContinuesOnPartialFetch(t *testing.T) {
	store := threeOwnerStore()
	store.fetchErr = &RemoteFetchError{Table: models.AirtableDemandTable, Page: 3, Err: errors.New("airtable error 503")}
	svc := &PlaytestService{Store: store, Shuffler: NoShuffle}

	report, err := svc.Run(context.Background(), models.ModeSimulate)
	require.NoError(t, err)
	assert.Contains(t, report.FetchError, "airtable error 503")
	assert.Len(t, report.Results, 3)
}

func TestRunFailsOnUnexpectedFetchError(t *testing.T) {
	store := threeOwnerStore()
	store.fetchErr = assert.AnError

	_, err := (&PlaytestService{Store: store, Shuffler: NoShuffle}).Run(context.Background(), models.ModeSimulate)
	require.ErrorIs(t, err, assert.AnError)
}

func TestRunReportsVerificationFailure(t *testing.T) {
	store := threeOwnerStore()
	store.listErr = errors.New("airtable error 500")

	report, err := (&PlaytestService{Store: store, Shuffler: NoShuffle}).Run(context.Background(), models.ModeLive)
	require.NoError(t, err)
	assert.Contains(t, report.VerificationErr, "airtable error 500")
}

func TestRunArchiveFailureIsNotFatal(t *testing.T) {
	archiver := &fakeArchiver{err: errors.New("access denied")}
	svc := &PlaytestService{Store: threeOwnerStore(), Shuffler: NoShuffle, Archiver: archiver}

	_, err := svc.Run(context.Background(), models.ModeSimulate)
	require.NoError(t, err)
	assert.Len(t, archiver.reports, 1)
}

func TestRunWithoutDemand(t *testing.T) {
	store := newMemoryStore(demandRecord("A", "U1", 0))

	report, err := (&PlaytestService{Store: store}).Run(context.Background(), models.ModeLive)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Zero(t, store.creates)
}
