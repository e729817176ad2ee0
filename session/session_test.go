package session

import (
	"errors"
	"testing"
	"time"

	"github.com/gruis/papertrade/ledger"
	"github.com/gruis/papertrade/notify"
	"github.com/gruis/papertrade/prices"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, balance string) (*Session, *notify.Recorder) {
	t.Helper()
	book, err := prices.NewBook(prices.Sample()...)
	require.NoError(t, err)

	b := decimal.RequireFromString(balance)
	rec := &notify.Recorder{}
	s, err := New(Options{InitialBalance: &b, Book: book, Notifier: rec})
	require.NoError(t, err)
	return s, rec
}

func lastTitle(t *testing.T, rec *notify.Recorder) string {
	t.Helper()
	n, ok := rec.Last()
	require.True(t, ok, "no notification sent")
	return n.Title
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0.1", want: "0.1"},
		{in: " 3 ", want: "3"},
		{in: "1e-3", want: "0.001"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := ParseQuantity(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, InvalidQuantity), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.String())
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(Options{})
	assert.True(t, errors.Is(err, NoBook))

	book, err := prices.NewBook(prices.Sample()...)
	require.NoError(t, err)

	s, err := New(Options{Book: book})
	require.NoError(t, err)
	assert.Equal(t, "10000", s.Balance().String())
	assert.Equal(t, "BTC", s.Selected())
	assert.Empty(t, s.State().Holdings)

	negative := decimal.NewFromInt(-5)
	_, err = New(Options{Book: book, InitialBalance: &negative})
	assert.True(t, errors.Is(err, ledger.NegativeBalance))
}

func TestSession_BuyThenSellBTC(t *testing.T) {
	s, rec := newTestSession(t, "10000")

	trade, err := s.Buy("BTC", "0.1")
	require.NoError(t, err)
	assert.Equal(t, "5000", trade.Value.String())
	assert.Equal(t, "5000", s.Balance().String())
	assert.Equal(t, "0.1", s.State().Holdings.Get("BTC").String())
	assert.Equal(t, TitleBought, lastTitle(t, rec))
	assert.Equal(t, trade, s.LastTrade)

	_, err = s.Sell("BTC", "0.1")
	require.NoError(t, err)
	assert.Equal(t, "10000", s.Balance().String())
	assert.True(t, s.State().Holdings.Get("BTC").IsZero())
	assert.Equal(t, TitleSold, lastTitle(t, rec))
}

func TestSession_BuyInsufficientFunds(t *testing.T) {
	s, rec := newTestSession(t, "100")

	trade, err := s.Buy("ETH", "1")
	assert.Nil(t, trade)
	assert.True(t, errors.Is(err, ledger.InsufficientFunds))
	assert.Equal(t, "100", s.Balance().String())
	assert.Empty(t, s.State().Holdings)

	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, TitleNoFunds, n.Title)
	assert.True(t, n.Failed())
}

func TestSession_SellInsufficientHoldings(t *testing.T) {
	s, rec := newTestSession(t, "100")

	_, err := s.Sell("XRP", "1")
	assert.True(t, errors.Is(err, ledger.InsufficientHoldings))
	assert.Equal(t, TitleNoHoldings, lastTitle(t, rec))

	_, err = s.Buy("XRP", "10")
	require.NoError(t, err)
	_, err = s.Sell("XRP", "10.5")
	assert.True(t, errors.Is(err, ledger.InsufficientHoldings))
	assert.Equal(t, "95", s.Balance().String())
	assert.Equal(t, "10", s.State().Holdings.Get("XRP").String())
}

func TestSession_RejectsBadInput(t *testing.T) {
	s, rec := newTestSession(t, "100")

	_, err := s.Buy("ADA", "lots")
	assert.True(t, errors.Is(err, InvalidQuantity))
	assert.Equal(t, TitleInvalidQuantity, lastTitle(t, rec))

	_, err = s.Buy("DOGE", "1")
	assert.True(t, errors.Is(err, prices.UnknownSymbol))
	assert.Equal(t, TitleUnknownCoin, lastTitle(t, rec))

	assert.Equal(t, "100", s.Balance().String())
	assert.Len(t, rec.All(), 2)
}

func TestSession_SelectedCoin(t *testing.T) {
	s, _ := newTestSession(t, "100")

	require.NoError(t, s.Select("ada"))
	assert.Equal(t, "ADA", s.Selected())
	assert.Error(t, s.Select("DOGE"))
	assert.Equal(t, "ADA", s.Selected())

	trade, err := s.Buy("", "10")
	require.NoError(t, err)
	assert.Equal(t, "ADA", trade.Symbol)
	assert.Equal(t, "88", s.Balance().String())
}

func TestSession_UsesCurrentQuotePrice(t *testing.T) {
	s, _ := newTestSession(t, "1000")

	_, err := s.Buy("ETH", "0.25")
	require.NoError(t, err)
	require.NoError(t, s.Book().Replace(prices.NewQuote("ETH", 2400, 2000)))

	trade, err := s.Sell("ETH", "0.25")
	require.NoError(t, err)
	assert.Equal(t, "2400", trade.UnitPrice.String())
	assert.Equal(t, "1100", s.Balance().String())
}

func TestSession_NotifyDuration(t *testing.T) {
	book, err := prices.NewBook(prices.Sample()...)
	require.NoError(t, err)
	rec := &notify.Recorder{}
	s, err := New(Options{Book: book, Notifier: rec, NotifyDuration: 5 * time.Second})
	require.NoError(t, err)

	_, err = s.Buy("BTC", "0.01")
	require.NoError(t, err)
	n, _ := rec.Last()
	assert.Equal(t, 5*time.Second, n.Duration)
}

func TestSession_StateIsACopy(t *testing.T) {
	s, _ := newTestSession(t, "100")
	_, err := s.Buy("ADA", "1")
	require.NoError(t, err)

	st := s.State()
	st.Holdings["ADA"] = decimal.NewFromInt(1000)
	assert.Equal(t, "1", s.State().Holdings.Get("ADA").String())
}

func TestSession_Positions(t *testing.T) {
	s, _ := newTestSession(t, "10000")

	_, err := s.Buy("XRP", "100")
	require.NoError(t, err)
	_, err = s.Buy("BTC", "0.1")
	require.NoError(t, err)
	_, err = s.Sell("BTC", "0.1")
	require.NoError(t, err)

	positions := s.Positions()
	require.Len(t, positions, 2)
	assert.Equal(t, "BTC", positions[0].Symbol)
	assert.True(t, positions[0].Quantity.IsZero())
	assert.Equal(t, "XRP", positions[1].Symbol)
	assert.Equal(t, "50", positions[1].Value.String())
	assert.True(t, positions[1].Priced)

	assert.Equal(t, "50", s.HoldingsValue().String())
	assert.Equal(t, "10000", s.TotalValue().String())

	require.NoError(t, s.Book().Replace(prices.NewQuote("BTC", 50000, 48000)))
	positions = s.Positions()
	assert.False(t, positions[1].Priced)
	assert.True(t, positions[1].Value.IsZero())
}
