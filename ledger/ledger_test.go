package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestState_BuyWithinBalance(t *testing.T) {
	s := NewState(d("10000"))

	next, trade, err := s.Buy("BTC", d("0.1"), d("50000"))
	require.NoError(t, err)

	assert.True(t, next.Cash.Equal(d("5000")), "cash %s", next.Cash)
	assert.True(t, next.Holdings.Get("BTC").Equal(d("0.1")))
	assert.Equal(t, SideBuy, trade.Side)
	assert.True(t, trade.Value.Equal(d("5000")))
	assert.NotEmpty(t, trade.ID.String())

	// the receiver is left alone
	assert.True(t, s.Cash.Equal(d("10000")))
	assert.Empty(t, s.Holdings)
}

func TestState_BuyAddsToExistingHolding(t *testing.T) {
	s := State{Cash: d("100"), Holdings: Holdings{"ADA": d("2")}}

	next, _, err := s.Buy("ADA", d("10"), d("1.2"))
	require.NoError(t, err)

	assert.True(t, next.Cash.Equal(d("88")))
	assert.True(t, next.Holdings.Get("ADA").Equal(d("12")))
	assert.True(t, s.Holdings.Get("ADA").Equal(d("2")))
}

func TestState_BuyExactBalance(t *testing.T) {
	s := NewState(d("2000"))

	next, _, err := s.Buy("ETH", d("1"), d("2000"))
	require.NoError(t, err)
	assert.True(t, next.Cash.IsZero())
	assert.NoError(t, next.Validate())
}

func TestState_BuyInsufficientFunds(t *testing.T) {
	s := NewState(d("100"))

	next, trade, err := s.Buy("ETH", d("1"), d("2000"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, InsufficientFunds))
	assert.Nil(t, trade)
	assert.True(t, next.Cash.Equal(d("100")))
	assert.Empty(t, next.Holdings)
}

func TestState_SellWithinHoldings(t *testing.T) {
	s := State{Cash: d("5000"), Holdings: Holdings{"BTC": d("0.3")}}

	next, trade, err := s.Sell("BTC", d("0.1"), d("50000"))
	require.NoError(t, err)

	assert.True(t, next.Cash.Equal(d("10000")))
	assert.True(t, next.Holdings.Get("BTC").Equal(d("0.2")))
	assert.Equal(t, SideSell, trade.Side)
	assert.True(t, trade.Value.Equal(d("5000")))
	assert.True(t, s.Holdings.Get("BTC").Equal(d("0.3")))
}

func TestState_SellInsufficientHoldings(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{
			name:  "symbol never held",
			state: NewState(d("10")),
		},
		{
			name:  "more than held",
			state: State{Cash: d("10"), Holdings: Holdings{"XRP": d("3")}},
		},
		{
			name:  "zero entry retained after sale",
			state: State{Cash: d("10"), Holdings: Holdings{"XRP": decimal.Zero}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, trade, err := tt.state.Sell("XRP", d("4"), d("0.5"))
			assert.True(t, errors.Is(err, InsufficientHoldings))
			assert.Nil(t, trade)
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestState_RejectsNonPositiveQuantity(t *testing.T) {
	s := State{Cash: d("10"), Holdings: Holdings{"ADA": d("1")}}

	for _, q := range []string{"0", "-1"} {
		_, _, err := s.Buy("ADA", d(q), d("1.2"))
		assert.True(t, errors.Is(err, InvalidQuantity), "buy %s", q)

		_, _, err = s.Sell("ADA", d(q), d("1.2"))
		assert.True(t, errors.Is(err, InvalidQuantity), "sell %s", q)
	}

	_, _, err := s.Buy("ADA", d("1"), d("-1"))
	assert.True(t, errors.Is(err, InvalidPrice))
}

func TestState_RoundTrip(t *testing.T) {
	start := NewState(d("10000"))

	bought, _, err := start.Buy("BTC", d("0.1"), d("50000"))
	require.NoError(t, err)
	sold, _, err := bought.Sell("BTC", d("0.1"), d("50000"))
	require.NoError(t, err)

	assert.True(t, sold.Cash.Equal(start.Cash))
	assert.True(t, sold.Holdings.Get("BTC").IsZero())
	// the emptied entry is kept
	_, kept := sold.Holdings["BTC"]
	assert.True(t, kept)
}

func TestState_Validate(t *testing.T) {
	assert.NoError(t, NewState(d("0")).Validate())
	assert.True(t, errors.Is(NewState(d("-1")).Validate(), NegativeBalance))
	assert.True(t, errors.Is(State{Holdings: Holdings{"BTC": d("-0.1")}}.Validate(), NegativeBalance))
}

func TestHoldings_Symbols(t *testing.T) {
	h := Holdings{"XRP": d("1"), "ADA": d("2"), "BTC": d("3")}
	assert.Equal(t, []string{"ADA", "BTC", "XRP"}, h.Symbols())
	assert.True(t, h.Get("ETH").IsZero())
}
