// Package render writes reports for humans: the closing pitch and an entity table.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/okian/crgg/internal/domain/model"
)

const (
	banner         = "======================================================="
	title          = "    COMPETITIVE REVENUE GAP GENERATOR (CRGG) REPORT"
	nameColumnMax  = 40
	urlColumnMax   = 40
	errorColumnMax = 30
)

// Pitch writes the closing-script summary of a report.
func Pitch(w io.Writer, r *model.Report) error {
	ssl := "VULNERABLE"
	if r.TargetHasSSL {
		ssl = "Secure"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n%s\n%s\n", banner, title, banner)
	fmt.Fprintf(&b, "Target: %s\n", r.TargetName)
	fmt.Fprintf(&b, "Location: %s\n", r.Location)
	fmt.Fprintf(&b, "\n*** THE PITCH VALUE (The Closing Script) ***\n")
	fmt.Fprintf(&b, "ESTIMATED LOST REVENUE: %s\n", r.FormattedRevenueLoss())
	fmt.Fprintf(&b, "Critical Flaw Status (SSL): %s\n", ssl)
	if r.Degraded {
		fmt.Fprintf(&b, "Note: live competitor search was unavailable; fallback competitors were used.\n")
	}
	fmt.Fprintf(&b, "%s\n", banner)

	_, err := io.WriteString(w, b.String())
	return err
}

// Table writes the enriched entity list in acquisition order.
func Table(w io.Writer, r *model.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.DrawBorder = true
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: nameColumnMax},
		{Number: 5, WidthMax: urlColumnMax},
		{Number: 9, WidthMax: errorColumnMax},
	})

	t.AppendHeader(table.Row{"#", "Name", "Rating", "Reviews", "URL", "Score", "SSL", "CTA", "Audit Error"})
	for i, e := range r.Entities {
		name := e.Name
		if e.IsTarget {
			name += " (target)"
		}
		url := strings.TrimSpace(e.URL)
		if url == "" {
			url = "N/A"
		}
		t.AppendRow(table.Row{
			i + 1,
			name,
			fmt.Sprintf("%.1f", e.Rating),
			e.ReviewCount,
			url,
			fmt.Sprintf("%.2f", e.DominanceScore),
			yesNo(e.Audit.HasSSL),
			yesNo(e.Audit.HasCTA),
			e.Audit.Error,
		})
	}
	t.AppendFooter(table.Row{
		"", "Competitor average", "", "", "",
		fmt.Sprintf("%.2f", r.CompetitorAverage), "", "",
		fmt.Sprintf("gap %.2f", r.ScoreGap),
	})
	t.Render()
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*model.Report
		FormattedRevenueLoss string `json:"formatted_revenue_loss"`
	}{r, r.FormattedRevenueLoss()})
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
