package prices

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var QuoteParseError = errors.New("quote data cannot be parsed")
var InvalidQuote = errors.New("quote is invalid")

var hundred = decimal.NewFromInt(100)

// Quote is a symbol's current and previous reference price.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	PrevPrice decimal.Decimal `json:"prev_price"`
}

func NewQuote(symbol string, price, prevPrice float64) Quote {
	return Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		PrevPrice: decimal.NewFromFloat(prevPrice),
	}
}

// Change is the percentage move from PrevPrice to Price. A quote without a
// previous price has not moved.
func (q Quote) Change() decimal.Decimal {
	if q.PrevPrice.IsZero() {
		return decimal.Zero
	}
	return q.Price.Sub(q.PrevPrice).Div(q.PrevPrice).Mul(hundred)
}

// ChangeString formats Change with two decimals, e.g. "4.17" or "-4.76".
func (q Quote) ChangeString() string {
	return q.Change().StringFixed(2)
}

// Rising is true for a flat or upward move.
func (q Quote) Rising() bool {
	return !q.Change().IsNegative()
}

func (q Quote) Validate() error {
	if strings.TrimSpace(q.Symbol) == "" {
		return fmt.Errorf("%w: empty symbol", InvalidQuote)
	}
	if !q.Price.IsPositive() {
		return fmt.Errorf("%w: %s price must be positive, got %s", InvalidQuote, q.Symbol, q.Price)
	}
	if q.PrevPrice.IsNegative() {
		return fmt.Errorf("%w: %s previous price cannot be negative, got %s", InvalidQuote, q.Symbol, q.PrevPrice)
	}
	return nil
}

// QuoteConfig is the shape of a quote in the configuration file. Prices are
// kept as strings so that decimal values survive the config decoder.
type QuoteConfig struct {
	Symbol    string `mapstructure:"symbol"`
	Price     string `mapstructure:"price"`
	PrevPrice string `mapstructure:"prev-price"`
}

func (qc QuoteConfig) Quote() (Quote, error) {
	price, err := decimal.NewFromString(qc.Price)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %s price %q: %v", QuoteParseError, qc.Symbol, qc.Price, err)
	}
	prev := decimal.Zero
	if qc.PrevPrice != "" {
		if prev, err = decimal.NewFromString(qc.PrevPrice); err != nil {
			return Quote{}, fmt.Errorf("%w: %s prev-price %q: %v", QuoteParseError, qc.Symbol, qc.PrevPrice, err)
		}
	}
	q := Quote{Symbol: strings.ToUpper(strings.TrimSpace(qc.Symbol)), Price: price, PrevPrice: prev}
	return q, q.Validate()
}

// FromConfig converts decoded configuration entries into quotes.
func FromConfig(configs []QuoteConfig) ([]Quote, error) {
	quotes := make([]Quote, 0, len(configs))
	for _, qc := range configs {
		q, err := qc.Quote()
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// Sample is the built-in reference price table.
func Sample() []Quote {
	return []Quote{
		NewQuote("BTC", 50000, 48000),
		NewQuote("ETH", 2000, 2100),
		NewQuote("XRP", 0.5, 0.48),
		NewQuote("ADA", 1.2, 1.15),
	}
}
