package prices

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var UnknownSymbol = errors.New("no quote for symbol")
var DuplicateSymbol = errors.New("symbol is quoted more than once")

// Book is the read-only price table consulted by trades. The config watcher
// may Replace it from another goroutine, so access is guarded.
type Book struct {
	mu     sync.RWMutex
	order  []string
	quotes map[string]Quote
}

func NewBook(quotes ...Quote) (*Book, error) {
	b := &Book{}
	if err := b.Replace(quotes...); err != nil {
		return nil, err
	}
	return b, nil
}

// Replace swaps the whole table. The book is left untouched when any quote
// is invalid.
func (b *Book) Replace(quotes ...Quote) error {
	order := make([]string, 0, len(quotes))
	index := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
		if err := q.Validate(); err != nil {
			return err
		}
		if _, exists := index[q.Symbol]; exists {
			return fmt.Errorf("%w: %s", DuplicateSymbol, q.Symbol)
		}
		index[q.Symbol] = q
		order = append(order, q.Symbol)
	}

	b.mu.Lock()
	b.order = order
	b.quotes = index
	b.mu.Unlock()
	return nil
}

// Get looks up a symbol, ignoring case.
func (b *Book) Get(symbol string) (Quote, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.quotes[strings.ToUpper(symbol)]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", UnknownSymbol, symbol)
	}
	return q, nil
}

// Symbols returns the quoted symbols in the order they were supplied.
func (b *Book) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.order...)
}

// All returns the quotes in the order they were supplied.
func (b *Book) All() []Quote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	all := make([]Quote, 0, len(b.order))
	for _, s := range b.order {
		all = append(all, b.quotes[s])
	}
	return all
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
