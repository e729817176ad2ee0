package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gruis/papertrade/config"
	"github.com/gruis/papertrade/display"
	"github.com/gruis/papertrade/notify"
	"github.com/gruis/papertrade/prices"
	"github.com/gruis/papertrade/runner"
	"github.com/gruis/papertrade/session"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const AppName = "papertrade"

type AppConfig struct {
	InitialBalance string               `mapstructure:"initial-balance"`
	Currency       string               `mapstructure:"currency"`
	QuotesFile     string               `mapstructure:"quotes-file"`
	Quotes         []prices.QuoteConfig `mapstructure:"quotes"`
	Style          string               `mapstructure:"style"`
	Width          int                  `mapstructure:"width"`
	Plain          bool                 `mapstructure:"plain"`
	NotifyDuration time.Duration        `mapstructure:"notify-duration"`
	Script         string               `mapstructure:"script"`
}

func loadAppConfig() (AppConfig, error) {
	var app AppConfig
	if err := viper.Unmarshal(&app); err != nil {
		return app, fmt.Errorf("cannot parse configuration: %w", err)
	}
	return app, nil
}

func (ac AppConfig) Balance() (decimal.Decimal, error) {
	if strings.TrimSpace(ac.InitialBalance) == "" {
		return decimal.NewFromInt(session.DefaultInitialBalance), nil
	}
	b, err := decimal.NewFromString(ac.InitialBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("initial-balance %q: %w", ac.InitialBalance, err)
	}
	return b, nil
}

// LoadQuotes picks the quote table: a quotes file wins over quotes listed in
// the configuration, which win over the built-in sample.
func (ac AppConfig) LoadQuotes() ([]prices.Quote, error) {
	switch {
	case ac.QuotesFile != "":
		return prices.LoadFile(ac.QuotesFile)
	case len(ac.Quotes) > 0:
		return prices.FromConfig(ac.Quotes)
	default:
		return prices.Sample(), nil
	}
}

// reloadQuotes refreshes book from the current configuration. A failed
// reload keeps the previous table.
func reloadQuotes(book *prices.Book) error {
	app, err := loadAppConfig()
	if err != nil {
		return err
	}
	quotes, err := app.LoadQuotes()
	if err != nil {
		return err
	}
	if err := book.Replace(quotes...); err != nil {
		return err
	}
	log.WithFields(log.Fields{"symbols": book.Symbols()}).Info("quotes loaded")
	return nil
}

func init() {
	config.AddFloat64("initial-balance", session.DefaultInitialBalance, "cash available when the session starts")
	config.AddString("currency", "USD", "ISO code of the cash currency used for display")
	config.AddString("quotes-file", "", "JSON file with the price table; overrides quotes in the config file")
	config.AddString("style", display.DefaultStyle, "glamour style: notty, ascii, dark, light, dracula, pink, tokyo-night")
	config.AddInt("width", 100, "word wrap width of rendered output")
	config.AddBool("plain", false, "print raw markdown instead of rendering it")
	config.AddDuration("notify-duration", notify.DefaultDuration, "how long a trade notification stays relevant")
	config.AddString("script", "", "read commands from this file instead of stdin")
}

func main() {
	book := &prices.Book{}
	config.OnChange("quotes", func() error { return reloadQuotes(book) })

	if err := config.Load(AppName); err != nil {
		log.WithError(err).Fatal("cannot load configuration")
	}
	args := flag.Args()
	log.WithField("commands", args).Debug("command line parsed")

	app, err := loadAppConfig()
	if err != nil {
		log.WithError(err).Fatal("cannot load configuration")
	}
	balance, err := app.Balance()
	if err != nil {
		log.WithError(err).Fatal("invalid initial balance")
	}
	formatter, err := display.NewFormatter(app.Currency)
	if err != nil {
		log.WithError(err).Fatal("invalid currency")
	}

	out := io.Writer(os.Stdout)
	sess, err := session.New(session.Options{
		InitialBalance: &balance,
		Book:           book,
		Notifier:       notify.Multi{display.ToastNotifier{Out: out}, notify.LogNotifier{}},
		NotifyDuration: app.NotifyDuration,
	})
	if err != nil {
		log.WithError(err).Fatal("cannot start session")
	}

	r := &runner.Runner{
		Session:   sess,
		Formatter: formatter,
		Renderer:  display.Renderer{Out: out, Style: app.Style, Width: app.Width, Plain: app.Plain},
	}

	// a command on the command line runs once, e.g. `papertrade prices`
	if len(args) > 0 {
		if err := r.Exec(strings.Join(args, " ")); err != nil {
			log.WithError(err).Fatal("command failed")
		}
		return
	}

	in := io.Reader(os.Stdin)
	if app.Script != "" {
		f, err := os.Open(app.Script)
		if err != nil {
			log.WithError(err).WithField("script", app.Script).Fatal("cannot open script")
		}
		defer f.Close()
		in = f
	} else {
		r.Prompt = "> "
	}

	if err := r.Run(in); err != nil {
		log.WithError(err).Error("input failed")
	}
}
