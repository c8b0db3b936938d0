package cli

import (
	"fmt"
	"strings"
	"time"

	"optionlab/internal/models"
	"optionlab/pkg/utils"
)

// FormatCurrency formats a dollar amount with thousands separators.
func FormatCurrency(amount float64) string {
	return utils.FormatCurrency(amount)
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl float64) string {
	return utils.FormatPnL(pnl)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	return utils.FormatPercent(value)
}

// FormatRate formats a decimal rate such as 0.05 as "5.00%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// FormatPrice formats a per-share price.
func FormatPrice(price float64) string {
	if price != 0 && price < 1 && price > -1 {
		return fmt.Sprintf("%.4f", price)
	}
	return fmt.Sprintf("%.2f", price)
}

// FormatDate formats a calendar date with the configured layout.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = models.DateLayout
	}
	return t.Format(layout)
}

// FormatExtreme formats a profit or loss bound.
func FormatExtreme(e models.Extreme) string {
	if e.Unlimited {
		return "Unlimited"
	}
	return FormatPnL(e.Value)
}

// FormatRoots formats break-even prices as a comma separated list.
func FormatRoots(roots []float64) string {
	if len(roots) == 0 {
		return "none"
	}
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = fmt.Sprintf("$%.2f", r)
	}
	return strings.Join(parts, ", ")
}

// FormatStrategyType turns "bull_call_spread" into "Bull Call Spread".
func FormatStrategyType(t models.StrategyType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// FormatConfidence formats a detection confidence in [0, 1] as a percentage.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}

// FormatLeg formats a leg as "LONG CALL 100 x1 @ $500.00 2026-12-18".
func FormatLeg(leg models.OptionLeg, layout string) string {
	s := fmt.Sprintf("%s %s %s x%d @ %s %s",
		leg.Position, leg.Type, trimFloat(leg.Strike), leg.Quantity,
		FormatCurrency(leg.Premium), FormatDate(leg.Expiry, layout))
	if leg.Volatility != nil {
		s += fmt.Sprintf(" (σ %s)", FormatRate(*leg.Volatility))
	}
	return s
}

// FormatStock formats a stock leg.
func FormatStock(stock models.StockLeg) string {
	return fmt.Sprintf("%s STOCK %d @ $%.2f", stock.Position, stock.Quantity, stock.EntryPrice)
}

// trimFloat prints a number without trailing zeros.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
