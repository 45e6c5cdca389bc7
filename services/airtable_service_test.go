package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playtest_server/models"
)

func newTestAirtable(t *testing.T, handler http.HandlerFunc) *AirtableService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAirtableService("key123", "appBase", srv.URL+"/", 2)
}

func TestAirtableFetchEligibleDemandPaginates(t *testing.T) {
	var offsets []string
	svc := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Equal(t, "/appBase/Active YSWS Record", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("pageSize"))
		offsets = append(offsets, r.URL.Query().Get("offset"))

		switch r.URL.Query().Get("offset") {
		case "":
			io.WriteString(w, `{"records":[
				{"id":"rec1","fields":{"User":["usr1"],"Game":["gam1"],"Game Name":["Snake"],"Email":"a@example.com","TicketsNeeded":2}},
				{"id":"rec2","fields":{"User":["usr2"],"Game":["gam2"],"TicketsNeeded":0}}
			],"offset":"page2"}`)
		case "page2":
			io.WriteString(w, `{"records":[
				{"id":"rec3","fields":{"Game":["gam3"],"Email":["c@example.com"],"TicketsNeeded":1.0}},
				{"id":"rec4","fields":{}}
			]}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	demand, err := svc.FetchEligibleDemand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "page2"}, offsets)
	assert.Equal(t, []models.DemandRecord{
		{RecordID: "rec1", GameID: "gam1", GameName: "Snake", OwnerID: "usr1", OwnerEmail: "a@example.com", TicketsNeeded: 2},
		{RecordID: "rec3", GameID: "gam3", GameName: models.UnknownValue, OwnerID: "", OwnerEmail: "c@example.com", TicketsNeeded: 1},
	}, demand)
}

func TestAirtableFetchReturnsPartialOnPageFailure(t *testing.T) {
	svc := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			io.WriteString(w, `{"records":[{"id":"rec1","fields":{"User":["usr1"],"Game":["gam1"],"TicketsNeeded":1}}],"offset":"next"}`)
			return
		}
		http.Error(w, `{"error":"RATE_LIMITED"}`, http.StatusTooManyRequests)
	})

	demand, err := svc.FetchEligibleDemand(context.Background())
	require.Error(t, err)

	var fetchErr *RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 2, fetchErr.Page)
	assert.Contains(t, err.Error(), "airtable error 429")
	require.Len(t, demand, 1)
	assert.Equal(t, "gam1", demand[0].GameID)
}

func TestAirtableCreateAssignmentRecord(t *testing.T) {
	var body createRecordsRequest
	svc := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appBase/PlaytestTickets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		io.WriteString(w, `{"records":[{"id":"recNew","createdTime":"2025-06-01T10:00:00.000Z","fields":{}}]}`)
	})

	ticket, err := svc.CreateAssignmentRecord(context.Background(), "gam1", "usr2")
	require.NoError(t, err)

	require.Len(t, body.Records, 1)
	fields := body.Records[0].Fields
	assert.Equal(t, []string{"gam1"}, fields.GameToTest)
	assert.Equal(t, []string{"usr2"}, fields.Player)
	assert.Len(t, fields.PlaytestID, 36)

	assert.Equal(t, "recNew", ticket.RecordID)
	assert.Equal(t, fields.PlaytestID, ticket.PlaytestID)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), ticket.CreatedTime)
}

func TestAirtableCreateFailureIsRemoteWriteError(t *testing.T) {
	svc := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"INVALID_VALUE_FOR_COLUMN"}`, http.StatusUnprocessableEntity)
	})

	_, err := svc.CreateAssignmentRecord(context.Background(), "gam1", "usr2")
	var writeErr *RemoteWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "create", writeErr.Op)
	assert.Contains(t, err.Error(), "422")
}

func TestAirtableDeleteRecord(t *testing.T) {
	var paths []string
	svc := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "recGone") {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"id":"recOld","deleted":true}`)
	})

	require.NoError(t, svc.DeleteRecord(context.Background(), "recOld"))

	err := svc.DeleteRecord(context.Background(), "recGone")
	var writeErr *RemoteWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "recGone", writeErr.RecordID)
	assert.Equal(t, []string{"/appBase/PlaytestTickets/recOld", "/appBase/PlaytestTickets/recGone"}, paths)
}

func TestAirtableListAllAssignmentRecords(t *testing.T) {
	svc := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"records":[
			{"id":"rec1","createdTime":"2025-06-01T10:00:00.000Z","fields":{"PlaytestId":"pt1","GameToTest":["gam1"],"Player":["usr2"]}},
			{"id":"rec2","createdTime":"bogus","fields":{"PlaytestId":"pt2"}}
		]}`)
	})

	tickets, err := svc.ListAllAssignmentRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	assert.Equal(t, "pt1", tickets[0].PlaytestID)
	assert.Equal(t, "gam1", tickets[0].GameID)
	assert.Equal(t, "usr2", tickets[0].PlayerID)
	assert.False(t, tickets[0].CreatedTime.IsZero())
	assert.Empty(t, tickets[1].GameID)
	assert.True(t, tickets[1].CreatedTime.IsZero())
}

func TestAirtableTextAcceptsListsAndScalars(t *testing.T) {
	var fields demandFields
	require.NoError(t, json.Unmarshal([]byte(`{"User":["usr1","usr9"],"Game":"gam1","Game Name":[],"Email":null}`), &fields))

	assert.Equal(t, airtableText("usr1"), fields.User)
	assert.Equal(t, airtableText("gam1"), fields.Game)
	assert.Equal(t, models.UnknownValue, fields.GameName.orDefault(models.UnknownValue))
	assert.Equal(t, models.UnknownValue, fields.Email.orDefault(models.UnknownValue))
}
