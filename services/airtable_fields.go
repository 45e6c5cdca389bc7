package services

import (
	"bytes"

	"github.com/goccy/go-json"
)

// airtableText accepts both plain text fields and linked-record / lookup
// fields (arrays), keeping the first element of the latter.
type airtableText string

func (t *airtableText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			*t = ""
			return nil
		}
		return t.UnmarshalJSON(list[0])
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// numbers and other scalars are kept verbatim
		*t = airtableText(data)
		return nil
	}
	*t = airtableText(s)
	return nil
}

func (t airtableText) orDefault(def string) string {
	if t == "" {
		return def
	}
	return string(t)
}

type airtableRecord struct {
	ID          string          `json:"id"`
	CreatedTime string          `json:"createdTime"`
	Fields      json.RawMessage `json:"fields"`
}

type airtablePage struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset"`
}

type demandFields struct {
	User          airtableText `json:"User"`
	Game          airtableText `json:"Game"`
	GameName      airtableText `json:"Game Name"`
	Email         airtableText `json:"Email"`
	TicketsNeeded float64      `json:"TicketsNeeded"`
}

type ticketFields struct {
	PlaytestID string   `json:"PlaytestId,omitempty"`
	GameToTest []string `json:"GameToTest,omitempty"`
	Player     []string `json:"Player,omitempty"`
}

type createRecordsRequest struct {
	Records []createRecord `json:"records"`
}

type createRecord struct {
	Fields ticketFields `json:"fields"`
}

func firstOf(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
