package display

import (
	"fmt"
	"strings"

	"github.com/gruis/papertrade/prices"
	"github.com/gruis/papertrade/session"
	"github.com/shopspring/decimal"
)

const Title = "Coin Exchange"

// BalanceMarkdown renders the cash balance line.
func (f Formatter) BalanceMarkdown(balance decimal.Decimal) string {
	return fmt.Sprintf("**Balance:** %s\n", f.Amount(balance))
}

// PricesMarkdown renders the quote table in book order.
func (f Formatter) PricesMarkdown(quotes []prices.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Prices\n\n")
	fmt.Fprintln(&b, "| Coin | Price | Change |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, q := range quotes {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			q.Symbol,
			f.Amount(q.Price),
			Change(q.ChangeString(), q.Rising()),
		)
	}
	return b.String()
}

// TradeMarkdown renders the trade panel for the selected coin.
func (f Formatter) TradeMarkdown(selected string, symbols []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Trade\n\n")
	fmt.Fprintf(&b, "Selected coin: **%s** (available: %s)\n\n", selected, strings.Join(symbols, ", "))
	fmt.Fprintln(&b, "Use `buy <quantity>` or `sell <quantity>`, optionally naming the coin first.")
	return b.String()
}

// HoldingsMarkdown renders every holding with its current valuation.
func (f Formatter) HoldingsMarkdown(positions []session.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Holdings\n\n")
	if len(positions) == 0 {
		fmt.Fprintln(&b, "No coins held.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Coin | Quantity | Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, p := range positions {
		value := "-"
		if p.Priced {
			value = f.Amount(p.Value)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Symbol, p.Quantity.String(), value)
	}
	return b.String()
}

// DashboardMarkdown renders the whole page for a session.
func (f Formatter) DashboardMarkdown(s *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	b.WriteString(f.BalanceMarkdown(s.Balance()))
	b.WriteString("\n")
	b.WriteString(f.PricesMarkdown(s.Book().All()))
	b.WriteString("\n")
	b.WriteString(f.TradeMarkdown(s.Selected(), s.Book().Symbols()))
	b.WriteString("\n")
	b.WriteString(f.HoldingsMarkdown(s.Positions()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "**Total value:** %s\n", f.Amount(s.TotalValue()))
	return b.String()
}
