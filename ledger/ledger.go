package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var InsufficientFunds = errors.New("balance is insufficient to purchase asset at given price")
var InsufficientHoldings = errors.New("holdings are insufficient to sell the requested quantity")
var InvalidQuantity = errors.New("quantity must be greater than zero")
var InvalidPrice = errors.New("unit price cannot be negative")
var NegativeBalance = errors.New("state has a negative balance or holding")

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is the receipt for an accepted buy or sell. Value is always the
// absolute cash amount that moved.
type Trade struct {
	ID        uuid.UUID
	Side      Side
	Symbol    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Value     decimal.Decimal
	CreatedAt time.Time
}

// Holdings maps a coin symbol to the quantity owned. Entries that drop to
// zero after a sale are kept.
type Holdings map[string]decimal.Decimal

// Get returns the quantity held for symbol, zero when absent.
func (h Holdings) Get(symbol string) decimal.Decimal {
	if q, ok := h[symbol]; ok {
		return q
	}
	return decimal.Zero
}

// Symbols returns the held symbols in lexical order.
func (h Holdings) Symbols() []string {
	symbols := make([]string, 0, len(h))
	for s := range h {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

func (h Holdings) clone() Holdings {
	c := make(Holdings, len(h)+1)
	for s, q := range h {
		c[s] = q
	}
	return c
}

// State is the cash balance and holdings of a single session. Buy and Sell
// never modify the receiver; they return the next State.
type State struct {
	Cash     decimal.Decimal
	Holdings Holdings
}

func NewState(cash decimal.Decimal) State {
	return State{Cash: cash, Holdings: Holdings{}}
}

// Validate reports whether the state holds the ledger invariants.
func (s State) Validate() error {
	if s.Cash.IsNegative() {
		return fmt.Errorf("%w: cash %s", NegativeBalance, s.Cash)
	}
	for sym, q := range s.Holdings {
		if q.IsNegative() {
			return fmt.Errorf("%w: %s %s", NegativeBalance, sym, q)
		}
	}
	return nil
}

func checkOrder(quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: got %s", InvalidQuantity, quantity)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("%w: got %s", InvalidPrice, unitPrice)
	}
	return nil
}

// Buy spends quantity*unitPrice of cash on symbol.
func (s State) Buy(symbol string, quantity, unitPrice decimal.Decimal) (State, *Trade, error) {
	if err := checkOrder(quantity, unitPrice); err != nil {
		return s, nil, err
	}

	cost := quantity.Mul(unitPrice)
	if s.Cash.LessThan(cost) {
		return s, nil, fmt.Errorf("%w: cost %s, balance %s", InsufficientFunds, cost, s.Cash)
	}

	next := State{Cash: s.Cash.Sub(cost), Holdings: s.Holdings.clone()}
	next.Holdings[symbol] = s.Holdings.Get(symbol).Add(quantity)

	return next, newTrade(SideBuy, symbol, quantity, unitPrice, cost), nil
}

// Sell converts quantity of symbol back into cash at unitPrice.
func (s State) Sell(symbol string, quantity, unitPrice decimal.Decimal) (State, *Trade, error) {
	if err := checkOrder(quantity, unitPrice); err != nil {
		return s, nil, err
	}

	held, ok := s.Holdings[symbol]
	if !ok || held.LessThan(quantity) {
		return s, nil, fmt.Errorf("%w: %s held %s, requested %s", InsufficientHoldings, symbol, held, quantity)
	}

	proceeds := quantity.Mul(unitPrice)
	next := State{Cash: s.Cash.Add(proceeds), Holdings: s.Holdings.clone()}
	next.Holdings[symbol] = held.Sub(quantity)

	return next, newTrade(SideSell, symbol, quantity, unitPrice, proceeds), nil
}

func newTrade(side Side, symbol string, quantity, unitPrice, value decimal.Decimal) *Trade {
	return &Trade{
		ID:        uuid.New(),
		Side:      side,
		Symbol:    symbol,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Value:     value,
		CreatedAt: time.Now(),
	}
}
