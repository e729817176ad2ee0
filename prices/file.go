package prices

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// LoadFile reads a quote table from a JSON file holding an array of quotes:
//
//	[
//	  {"symbol": "BTC", "price": 50000, "prev_price": 48000},
//	  {"symbol": "XRP", "price": "0.5", "prev_price": "0.48"}
//	]
func LoadFile(path string) ([]Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	quotes, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.WithFields(log.Fields{"file": path, "quotes": len(quotes)}).Debug("quote file loaded")
	return quotes, nil
}

// Decode streams quotes out of a JSON array one element at a time.
func Decode(r io.Reader) ([]Quote, error) {
	dec := json.NewDecoder(r)

	// The wrapping Array is pulled off first as a sanity check.
	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", QuoteParseError, err)
	}
	if d, ok := t.(json.Delim); !ok || d.String() != "[" {
		return nil, fmt.Errorf("%w: expected '[', got '%v' (%T)", QuoteParseError, t, t)
	}

	var quotes []Quote
	for dec.More() {
		var q Quote
		if err := dec.Decode(&q); err != nil {
			return nil, fmt.Errorf("%w: quote %d: %v", QuoteParseError, len(quotes), err)
		}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	t, err = dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", QuoteParseError, err)
	}
	if d, ok := t.(json.Delim); !ok || d.String() != "]" {
		return nil, fmt.Errorf("%w: expected ']', got '%v' (%T)", QuoteParseError, t, t)
	}

	return quotes, nil
}
