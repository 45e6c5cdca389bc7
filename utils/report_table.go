package utils

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"playtest_server/models"
)

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

// RenderRunReport prints the run summary, the first limit assignments and the
// distribution tables
func RenderRunReport(w io.Writer, r *models.RunReport, limit int) {
	fmt.Fprintf(w, "\n🎯 Assignment Results (%s)\n", r.Mode)
	summary := newTable(w, "Metric", "Value")
	summary.AppendBulk([][]string{
		{"Demand records", strconv.Itoa(r.DemandRecords)},
		{"Games needing playtests", strconv.Itoa(r.GamesInPool)},
		{"Players available", strconv.Itoa(r.PlayersInPool)},
		{"Successful assignments", strconv.Itoa(len(r.Results))},
		{"Games processed", strconv.Itoa(r.GamesProcessed)},
		{"Games skipped", strconv.Itoa(len(r.SkippedGames))},
		{"Total attempts", strconv.Itoa(r.Attempts)},
	})
	if r.Mode.IsLive() {
		summary.Append([]string{"Tickets created", strconv.Itoa(r.Created)})
		summary.Append([]string{"Ticket writes failed", strconv.Itoa(r.Failed)})
		if r.VerificationErr == "" {
			summary.Append([]string{"Tickets in store", strconv.Itoa(r.TicketsInStore)})
		}
	}
	summary.Render()

	if r.FetchError != "" {
		fmt.Fprintf(w, "⚠️  Demand fetch incomplete: %s\n", r.FetchError)
	}
	if r.VerificationErr != "" {
		fmt.Fprintf(w, "⚠️  Could not fetch final ticket count: %s\n", r.VerificationErr)
	}

	fmt.Fprintln(w, "\n📋 Assignments Made:")
	assignments := newTable(w, "#", "Player", "Game", "Status")
	for i, res := range r.Results {
		if limit > 0 && i >= limit {
			break
		}
		assignments.Append([]string{
			strconv.Itoa(i + 1),
			truncate(res.Assignment.PlayerEmail, 25),
			res.Assignment.GameName,
			string(res.Status),
		})
	}
	assignments.Render()
	if limit > 0 && len(r.Results) > limit {
		fmt.Fprintf(w, "    ... and %d more assignments\n", len(r.Results)-limit)
	}

	fmt.Fprintln(w, "\n⚖️  Distribution Analysis:")
	players := newTable(w, "Player", "Assignments")
	for _, p := range r.TopPlayers {
		players.Append([]string{truncate(p.PlayerEmail, 30), strconv.Itoa(p.Count)})
	}
	players.Render()

	games := newTable(w, "Game", "Playtests")
	for _, g := range r.GameCounts {
		games.Append([]string{truncate(g.GameName, 30), strconv.Itoa(g.Count)})
	}
	games.Render()
}

// RenderDedupeReport prints every duplicate group and the deletion outcome
func RenderDedupeReport(w io.Writer, r *models.DedupeReport) {
	fmt.Fprintf(w, "\n📊 Duplicate Analysis (%s)\n", r.Mode)
	fmt.Fprintf(w, "  Tickets found: %d\n  Unique assignments: %d\n  Duplicate groups: %d\n",
		r.TicketsFound, r.UniquePairs, len(r.Groups))
	if r.FetchError != "" {
		fmt.Fprintf(w, "⚠️  Ticket listing incomplete: %s\n", r.FetchError)
	}
	if len(r.Groups) == 0 {
		fmt.Fprintln(w, "✅ No duplicates found!")
		return
	}

	table := newTable(w, "Player-Game Pair", "PlaytestId", "Record ID", "Created", "Action")
	for _, g := range r.Groups {
		table.Append([]string{g.Key, g.Keep.PlaytestID, g.Keep.RecordID, g.Keep.CreatedTime.Format("2006-01-02 15:04:05"), "keep (oldest)"})
		for _, t := range g.Discard {
			table.Append([]string{g.Key, t.PlaytestID, t.RecordID, t.CreatedTime.Format("2006-01-02 15:04:05"), "delete"})
		}
	}
	table.Render()

	fmt.Fprintf(w, "\n🗑️  Tickets to delete: %d\n", len(r.ToDelete()))
	if r.Mode.IsLive() {
		fmt.Fprintf(w, "  Successfully deleted: %d\n  Failed to delete: %d\n", r.Deleted, r.DeleteFailed)
	}
}
