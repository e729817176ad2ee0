package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var UnknownCurrency = errors.New("unknown currency")

// Formatter renders decimal amounts in a currency's display format.
type Formatter struct {
	Currency *money.Currency
}

func NewFormatter(code string) (Formatter, error) {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return Formatter{}, fmt.Errorf("%w: %s", UnknownCurrency, code)
	}
	return Formatter{Currency: c}, nil
}

// Money converts an amount to minor units, rounding half away from zero.
func (f Formatter) Money(amount decimal.Decimal) *money.Money {
	minor := amount.Shift(int32(f.Currency.Fraction)).Round(0).IntPart()
	return money.New(minor, f.Currency.Code)
}

func (f Formatter) Amount(amount decimal.Decimal) string {
	return f.Money(amount).Display()
}

// Change renders a quote move as a signed percentage.
func Change(pct string, rising bool) string {
	if rising && !strings.HasPrefix(pct, "+") {
		return "+" + pct + "%"
	}
	return pct + "%"
}
