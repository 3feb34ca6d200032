// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RouteRow represents a route decision in the list.
type RouteRow struct {
	Timestamp  string
	Collection string
	Side       string // "BUY" or "SELL"
	Count      int
	Price      decimal.Decimal
	Source     string // "pool", "listing" or "none"
	Instant    bool
}

// RoutesComponent renders the recent route decisions.
type RoutesComponent struct {
	rows    []RouteRow
	maxRows int
	offset  int
	visible int
}

// NewRoutesComponent creates a new routes component.
func NewRoutesComponent(maxRows int) *RoutesComponent {
	return &RoutesComponent{
		rows:    make([]RouteRow, 0),
		maxRows: maxRows,
		visible: 10,
	}
}

// Add prepends a new route decision.
func (r *RoutesComponent) Add(row RouteRow) {
	r.rows = append([]RouteRow{row}, r.rows...)
	if len(r.rows) > r.maxRows {
		r.rows = r.rows[:r.maxRows]
	}
}

// Clear clears all route decisions.
func (r *RoutesComponent) Clear() {
	r.rows = make([]RouteRow, 0)
	r.offset = 0
}

// ScrollUp scrolls the list towards older entries.
func (r *RoutesComponent) ScrollUp() {
	if r.offset+r.visible < len(r.rows) {
		r.offset++
	}
}

// ScrollDown scrolls the list towards newer entries.
func (r *RoutesComponent) ScrollDown() {
	if r.offset > 0 {
		r.offset--
	}
}

// View renders the routes component.
func (r *RoutesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	poolStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	listingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	noneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("ROUTES"))
	sb.WriteString("\n\n")

	if len(r.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  No routes yet..."))
		return sb.String()
	}

	end := r.offset + r.visible
	if end > len(r.rows) {
		end = len(r.rows)
	}

	for _, row := range r.rows[r.offset:end] {
		sourceStyle := poolStyle
		switch row.Source {
		case "listing":
			sourceStyle = listingStyle
		case "none":
			sourceStyle = noneStyle
		}

		instant := " "
		if row.Instant {
			instant = "⚡"
		}

		price := row.Price.StringFixed(4)
		if row.Source == "none" {
			price = "no liquidity"
		}

		sb.WriteString(fmt.Sprintf("  %s  %s %-4s x%-3d %12s  %s%s\n",
			mutedStyle.Render(row.Timestamp),
			mutedStyle.Render(row.Collection),
			row.Side,
			row.Count,
			price,
			sourceStyle.Render(row.Source),
			instant,
		))
	}

	if r.offset > 0 || end < len(r.rows) {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("\n  %d-%d of %d", r.offset+1, end, len(r.rows))))
	}

	return sb.String()
}
