package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"playtest_server/models"
)

// AirtableService talks to the Airtable REST API
type AirtableService struct {
	APIKey   string
	BaseID   string
	APIBase  string
	PageSize int
	Client   *http.Client
}

// NewAirtableService creates an AirtableService with a default HTTP client
func NewAirtableService(apiKey, baseID, apiBase string, pageSize int) *AirtableService {
	return &AirtableService{
		APIKey:   apiKey,
		BaseID:   baseID,
		APIBase:  strings.TrimRight(apiBase, "/"),
		PageSize: pageSize,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Request performs an authenticated request against the base. body is
// JSON-encoded when non-nil and out, when non-nil, receives the decoded
// response.
func (a *AirtableService) Request(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s/%s", a.APIBase, a.BaseID, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build airtable request")
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "airtable %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("airtable error %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode airtable response")
	}
	return nil
}

// listRecords follows the offset cursor until Airtable stops returning one.
// On failure the records gathered so far are returned with a *RemoteFetchError.
func (a *AirtableService) listRecords(ctx context.Context, table string) ([]airtableRecord, error) {
	var all []airtableRecord
	offset := ""

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(a.PageSize))
		if offset != "" {
			query.Set("offset", offset)
		}

		var resp airtablePage
		if err := a.Request(ctx, http.MethodGet, url.PathEscape(table), query, nil, &resp); err != nil {
			log.Error().Err(err).Str("table", table).Int("page", page).Msg("❌ Error fetching page")
			return all, &RemoteFetchError{Table: table, Page: page, Err: err}
		}

		all = append(all, resp.Records...)
		log.Debug().Str("table", table).Int("page", page).Int("records", len(resp.Records)).Int("total", len(all)).
			Msg("📄 Fetched page")

		if resp.Offset == "" {
			return all, nil
		}
		offset = resp.Offset
	}
}

// FetchEligibleDemand reads the demand table and keeps records that still
// need tickets
func (a *AirtableService) FetchEligibleDemand(ctx context.Context) ([]models.DemandRecord, error) {
	records, fetchErr := a.listRecords(ctx, models.AirtableDemandTable)

	var demand []models.DemandRecord
	for _, rec := range records {
		var fields demandFields
		if len(rec.Fields) > 0 {
			if err := json.Unmarshal(rec.Fields, &fields); err != nil {
				log.Warn().Err(err).Str("recordId", rec.ID).Msg("⚠️ Skipping malformed demand record")
				continue
			}
		}

		needed := int(math.Floor(fields.TicketsNeeded))
		if needed <= 0 {
			continue
		}
		demand = append(demand, models.DemandRecord{
			RecordID:      rec.ID,
			GameID:        string(fields.Game),
			GameName:      fields.GameName.orDefault(models.UnknownValue),
			OwnerID:       string(fields.User),
			OwnerEmail:    fields.Email.orDefault(models.UnknownValue),
			TicketsNeeded: needed,
		})
	}

	log.Info().Int("records", len(records)).Int("eligible", len(demand)).Msg("✅ Fetched demand records")
	return demand, fetchErr
}

// CreateAssignmentRecord creates a playtest ticket linking a game to a player
func (a *AirtableService) CreateAssignmentRecord(ctx context.Context, gameID, playerID string) (models.PlaytestTicket, error) {
	playtestID := uuid.NewString()
	body := createRecordsRequest{Records: []createRecord{{Fields: ticketFields{
		PlaytestID: playtestID,
		GameToTest: []string{gameID},
		Player:     []string{playerID},
	}}}}

	var resp airtablePage
	if err := a.Request(ctx, http.MethodPost, models.TicketsTable, nil, body, &resp); err != nil {
		return models.PlaytestTicket{}, &RemoteWriteError{Op: "create", Table: models.TicketsTable, Err: err}
	}
	if len(resp.Records) == 0 {
		return models.PlaytestTicket{}, &RemoteWriteError{Op: "create", Table: models.TicketsTable, Err: errors.New("no record returned")}
	}

	ticket := models.PlaytestTicket{
		RecordID:    resp.Records[0].ID,
		PlaytestID:  playtestID,
		GameID:      gameID,
		PlayerID:    playerID,
		CreatedTime: parseCreatedTime(resp.Records[0].CreatedTime),
	}
	log.Debug().Str("playtestId", playtestID).Str("recordId", ticket.RecordID).Msg("🎫 Created playtest ticket")
	return ticket, nil
}

// DeleteRecord deletes a playtest ticket
func (a *AirtableService) DeleteRecord(ctx context.Context, recordID string) error {
	path := models.TicketsTable + "/" + url.PathEscape(recordID)
	if err := a.Request(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return &RemoteWriteError{Op: "delete", Table: models.TicketsTable, RecordID: recordID, Err: err}
	}
	return nil
}

// ListAllAssignmentRecords reads every playtest ticket
func (a *AirtableService) ListAllAssignmentRecords(ctx context.Context) ([]models.PlaytestTicket, error) {
	records, fetchErr := a.listRecords(ctx, models.TicketsTable)

	tickets := make([]models.PlaytestTicket, 0, len(records))
	for _, rec := range records {
		var fields ticketFields
		if len(rec.Fields) > 0 {
			if err := json.Unmarshal(rec.Fields, &fields); err != nil {
				log.Warn().Err(err).Str("recordId", rec.ID).Msg("⚠️ Skipping malformed ticket record")
				continue
			}
		}
		tickets = append(tickets, models.PlaytestTicket{
			RecordID:    rec.ID,
			PlaytestID:  fields.PlaytestID,
			GameID:      firstOf(fields.GameToTest),
			PlayerID:    firstOf(fields.Player),
			CreatedTime: parseCreatedTime(rec.CreatedTime),
		})
	}
	return tickets, fetchErr
}

// parseCreatedTime returns the zero time for missing or malformed values
func parseCreatedTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
