package session

import (
	"github.com/shopspring/decimal"
)

// Position is a holding valued at the current quote. Priced is false when
// the coin is no longer quoted, in which case Value is zero.
type Position struct {
	Symbol   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Value    decimal.Decimal
	Priced   bool
}

// Positions values every holding, zero quantities included, ordered by
// symbol.
func (s *Session) Positions() []Position {
	positions := make([]Position, 0, len(s.state.Holdings))
	for _, sym := range s.state.Holdings.Symbols() {
		p := Position{Symbol: sym, Quantity: s.state.Holdings[sym]}
		if q, err := s.book.Get(sym); err == nil {
			p.Price = q.Price
			p.Value = p.Quantity.Mul(q.Price)
			p.Priced = true
		}
		positions = append(positions, p)
	}
	return positions
}

// HoldingsValue is the sum of all position values.
func (s *Session) HoldingsValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Positions() {
		total = total.Add(p.Value)
	}
	return total
}

// TotalValue is cash plus holdings at current quotes.
func (s *Session) TotalValue() decimal.Decimal {
	return s.state.Cash.Add(s.HoldingsValue())
}
