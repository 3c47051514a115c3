package notifier

import (
	"fmt"
	"html"
	"strings"

	"MarketCorrelator/internal/model"
)

// FormatRunReport formats a run summary into a Telegram HTML message.
func FormatRunReport(run *model.RunSummary) string {
	var b strings.Builder

	end := run.End
	if end == "" {
		end = "today"
	}
	b.WriteString(fmt.Sprintf("📊 <b>Correlation report</b> | %s\n\n", run.StartedAt.UTC().Format("2006-01-02 15:04 MST")))
	b.WriteString(fmt.Sprintf("Tickers: %s\n", html.EscapeString(strings.Join(run.Tickers, ", "))))
	b.WriteString(fmt.Sprintf("Window: %s → %s (%d rows)\n", run.Start, end, run.Rows))
	if len(run.Dropped) > 0 {
		b.WriteString(fmt.Sprintf("Dropped (no data): %s\n", html.EscapeString(strings.Join(run.Dropped, ", "))))
	}

	if run.Outcome != model.OutcomeOK {
		b.WriteString(fmt.Sprintf("\n⚠️ %s\n", html.EscapeString(run.Outcome)))
		return b.String()
	}

	if len(run.Pairs) > 0 {
		b.WriteString("\n📈 <b>Highest correlations:</b>\n")
		for i, p := range run.Pairs {
			b.WriteString(fmt.Sprintf("  %d. %s / %s: %+.2f\n", i+1, html.EscapeString(p.A), html.EscapeString(p.B), p.Value))
		}
	} else {
		b.WriteString("\nNo correlated pairs (fewer than two tickers with data).\n")
	}
	return b.String()
}
