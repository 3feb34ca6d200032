// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// LiquidityStats holds aggregated liquidity for display.
type LiquidityStats struct {
	Pools       int
	Buyable     int
	Sellable    int
	TotalNFTs   string
	TotalTokens decimal.Decimal
	FloorPrice  decimal.Decimal
	BestOffer   decimal.Decimal
	HasFloor    bool
	HasOffer    bool
}

// LiquidityComponent renders collection liquidity.
type LiquidityComponent struct {
	stats LiquidityStats
}

// NewLiquidityComponent creates a new liquidity component.
func NewLiquidityComponent() *LiquidityComponent {
	return &LiquidityComponent{}
}

// Update updates the liquidity stats.
func (l *LiquidityComponent) Update(stats LiquidityStats) {
	l.stats = stats
}

// View renders the liquidity component.
func (l *LiquidityComponent) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	floorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	floor := labelStyle.Render("none")
	if l.stats.HasFloor {
		floor = floorStyle.Render(l.stats.FloorPrice.StringFixed(4))
	}
	offer := labelStyle.Render("none")
	if l.stats.HasOffer {
		offer = floorStyle.Render(l.stats.BestOffer.StringFixed(4))
	}

	return labelStyle.Render("LIQUIDITY") + "\n" +
		fmt.Sprintf("Pools: %s  │  Buyable: %s  │  Sellable: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", l.stats.Pools)),
			valueStyle.Render(fmt.Sprintf("%d", l.stats.Buyable)),
			valueStyle.Render(fmt.Sprintf("%d", l.stats.Sellable)),
		) +
		fmt.Sprintf("NFTs: %s  │  Tokens: %s\n",
			valueStyle.Render(l.stats.TotalNFTs),
			valueStyle.Render(l.stats.TotalTokens.StringFixed(4)),
		) +
		fmt.Sprintf("Floor: %s  │  Best offer: %s", floor, offer)
}
