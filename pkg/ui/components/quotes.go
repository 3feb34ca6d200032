// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// QuoteRow is one rung of the quote ladder for a collection.
type QuoteRow struct {
	Count      int
	TotalPrice decimal.Decimal
	PerItem    decimal.Decimal
	ImpactBps  decimal.Decimal
	Available  bool
	Reason     string
}

// QuotesComponent renders the quote ladder for the selected collection.
type QuotesComponent struct {
	collection string
	buying     bool
	rows       []QuoteRow
}

// NewQuotesComponent creates a new quotes component.
func NewQuotesComponent() *QuotesComponent {
	return &QuotesComponent{buying: true}
}

// SetCollection sets the collection being displayed.
func (q *QuotesComponent) SetCollection(collection string) {
	q.collection = collection
}

// SetDirection sets whether the ladder shows buy or sell quotes.
func (q *QuotesComponent) SetDirection(buying bool) {
	q.buying = buying
}

// Update replaces the ladder rows.
func (q *QuotesComponent) Update(rows []QuoteRow) {
	q.rows = rows
}

// View renders the quotes component.
func (q *QuotesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	priceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	impactStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	deadStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	side := "BUY"
	if !q.buying {
		side = "SELL"
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("QUOTES · %s · %s", q.collection, side)))
	sb.WriteString("\n\n")

	if len(q.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for pool data..."))
		return sb.String()
	}

	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %5s  %14s  %14s  %10s", "Items", "Total", "Per item", "Impact")))
	sb.WriteString("\n")

	for _, row := range q.rows {
		if !row.Available {
			sb.WriteString(deadStyle.Render(fmt.Sprintf("  %5d  %s", row.Count, row.Reason)))
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(fmt.Sprintf("  %5d  %s  %s  %s\n",
			row.Count,
			priceStyle.Render(fmt.Sprintf("%14s", row.TotalPrice.StringFixed(4))),
			priceStyle.Render(fmt.Sprintf("%14s", row.PerItem.StringFixed(4))),
			impactStyle.Render(fmt.Sprintf("%8s bp", row.ImpactBps.StringFixed(1))),
		))
	}

	return sb.String()
}
