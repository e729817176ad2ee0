package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gruis/papertrade/ledger"
	"github.com/gruis/papertrade/notify"
	"github.com/gruis/papertrade/prices"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var InvalidQuantity = errors.New("quantity must be a positive number")
var NoBook = errors.New("session requires a quote book")

const (
	TitleBought           = "Purchase complete"
	TitleSold             = "Sale complete"
	TitleNoFunds          = "Insufficient balance"
	TitleNoHoldings       = "Insufficient holdings"
	TitleInvalidQuantity  = "Invalid quantity"
	TitleUnknownCoin      = "Unknown coin"
	TitleTradeFailed      = "Trade failed"
	DefaultInitialBalance = 10000
)

// ParseQuantity turns user input into a positive decimal quantity.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", InvalidQuantity)
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", InvalidQuantity, s)
	}
	if !q.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", InvalidQuantity, q)
	}
	return q, nil
}

type Options struct {
	// InitialBalance defaults to DefaultInitialBalance when nil.
	InitialBalance *decimal.Decimal
	Book           *prices.Book
	Notifier       notify.Notifier
	// NotifyDuration overrides notify.DefaultDuration when positive.
	NotifyDuration time.Duration
}

// Session owns the ledger state of one user for as long as the program
// runs. It is not safe for concurrent use.
type Session struct {
	state          ledger.State
	book           *prices.Book
	notifier       notify.Notifier
	notifyDuration time.Duration
	selected       string

	LastTrade *ledger.Trade
}

func New(o Options) (*Session, error) {
	if o.Book == nil {
		return nil, NoBook
	}

	balance := decimal.NewFromInt(DefaultInitialBalance)
	if o.InitialBalance != nil {
		balance = *o.InitialBalance
	}
	state := ledger.NewState(balance)
	if err := state.Validate(); err != nil {
		return nil, err
	}

	if o.Notifier == nil {
		o.Notifier = notify.LogNotifier{}
	}

	s := &Session{
		state:          state,
		book:           o.Book,
		notifier:       o.Notifier,
		notifyDuration: o.NotifyDuration,
	}
	if symbols := o.Book.Symbols(); len(symbols) > 0 {
		s.selected = symbols[0]
	}
	return s, nil
}

func (s *Session) Book() *prices.Book { return s.book }

// State returns a copy of the current ledger state.
func (s *Session) State() ledger.State {
	h := make(ledger.Holdings, len(s.state.Holdings))
	for sym, q := range s.state.Holdings {
		h[sym] = q
	}
	return ledger.State{Cash: s.state.Cash, Holdings: h}
}

func (s *Session) Balance() decimal.Decimal { return s.state.Cash }

func (s *Session) Selected() string { return s.selected }

// Select makes symbol the default coin for trades that do not name one.
func (s *Session) Select(symbol string) error {
	q, err := s.book.Get(symbol)
	if err != nil {
		return err
	}
	s.selected = q.Symbol
	log.WithField("symbol", q.Symbol).Debug("coin selected")
	return nil
}

// Buy purchases quantity of symbol at its current quote. An empty symbol
// trades the selected coin.
func (s *Session) Buy(symbol, quantity string) (*ledger.Trade, error) {
	return s.trade(ledger.SideBuy, symbol, quantity)
}

// Sell sells quantity of symbol at its current quote. An empty symbol
// trades the selected coin.
func (s *Session) Sell(symbol, quantity string) (*ledger.Trade, error) {
	return s.trade(ledger.SideSell, symbol, quantity)
}

func (s *Session) trade(side ledger.Side, symbol, quantityText string) (*ledger.Trade, error) {
	if symbol == "" {
		symbol = s.selected
	}
	logger := log.WithFields(log.Fields{
		"side":     side,
		"symbol":   symbol,
		"quantity": quantityText,
		"balance":  s.state.Cash,
	})
	logger.Debug("trade requested")

	quantity, err := ParseQuantity(quantityText)
	if err != nil {
		s.notify(notify.StatusError, TitleInvalidQuantity, err.Error())
		return nil, err
	}

	quote, err := s.book.Get(symbol)
	if err != nil {
		s.notify(notify.StatusError, TitleUnknownCoin, err.Error())
		return nil, err
	}

	var (
		next  ledger.State
		trade *ledger.Trade
	)
	switch side {
	case ledger.SideBuy:
		next, trade, err = s.state.Buy(quote.Symbol, quantity, quote.Price)
	default:
		next, trade, err = s.state.Sell(quote.Symbol, quantity, quote.Price)
	}
	if err != nil {
		logger.WithError(err).Warn("trade refused")
		s.notify(notify.StatusError, failureTitle(err), err.Error())
		return nil, err
	}

	s.state = next
	s.LastTrade = trade

	logger.WithFields(log.Fields{
		"id":      trade.ID,
		"price":   trade.UnitPrice,
		"value":   trade.Value,
		"balance": s.state.Cash,
		"holding": s.state.Holdings.Get(quote.Symbol),
	}).Info("trade executed")

	if side == ledger.SideBuy {
		s.notify(notify.StatusSuccess, TitleBought,
			fmt.Sprintf("bought %s %s for %s", trade.Quantity, trade.Symbol, trade.Value))
	} else {
		s.notify(notify.StatusSuccess, TitleSold,
			fmt.Sprintf("sold %s %s for %s", trade.Quantity, trade.Symbol, trade.Value))
	}
	return trade, nil
}

func failureTitle(err error) string {
	switch {
	case errors.Is(err, ledger.InsufficientFunds):
		return TitleNoFunds
	case errors.Is(err, ledger.InsufficientHoldings):
		return TitleNoHoldings
	case errors.Is(err, ledger.InvalidQuantity):
		return TitleInvalidQuantity
	default:
		return TitleTradeFailed
	}
}

func (s *Session) notify(status notify.Status, title, message string) {
	n := notify.New(status, title, message)
	if s.notifyDuration > 0 {
		n.Duration = s.notifyDuration
	}
	s.notifier.Notify(n)
}
