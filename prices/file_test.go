package prices

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	in := `[
		{"symbol": "BTC", "price": 50000, "prev_price": 48000},
		{"symbol": "XRP", "price": "0.5", "prev_price": "0.48"}
	]`

	quotes, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "BTC", quotes[0].Symbol)
	assert.Equal(t, "0.5", quotes[1].Price.String())
	assert.Equal(t, "4.17", quotes[1].ChangeString())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not an array", `{"symbol": "BTC"}`, QuoteParseError},
		{"bad element", `[{"symbol": "BTC", "price": "x"}]`, QuoteParseError},
		{"unterminated", `[{"symbol": "BTC", "price": 1}`, QuoteParseError},
		{"empty input", ``, QuoteParseError},
		{"invalid quote", `[{"symbol": "BTC", "price": 0}]`, InvalidQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"symbol": "ADA", "price": 1.2, "prev_price": 1.15}]`), 0o644))

	quotes, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "4.35", quotes[0].ChangeString())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
