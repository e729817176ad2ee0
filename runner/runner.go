package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gruis/papertrade/display"
	"github.com/gruis/papertrade/session"
	log "github.com/sirupsen/logrus"
)

var UnknownCommand = errors.New("unknown command")
var MissingArgument = errors.New("missing argument")

// Stop is returned by Exec when the user asks to leave.
var Stop = errors.New("stop requested")

const Help = `## Commands

| Command | Action |
|:---|:---|
| ` + "`show`" + ` | whole page |
| ` + "`prices`" + ` | price table |
| ` + "`holdings`" + ` | holdings with current value |
| ` + "`balance`" + ` | cash balance |
| ` + "`select <coin>`" + ` | choose the default coin |
| ` + "`buy [coin] <quantity>`" + ` | buy at the current price |
| ` + "`sell [coin] <quantity>`" + ` | sell at the current price |
| ` + "`quit`" + ` | leave |
`

// TradeError wraps a refused buy or sell. The session has already notified
// the user about it.
type TradeError struct {
	Err error
}

func (e *TradeError) Error() string { return e.Err.Error() }
func (e *TradeError) Unwrap() error { return e.Err }

// Runner feeds user commands, one per line, into a session.
type Runner struct {
	Session   *session.Session
	Formatter display.Formatter
	Renderer  display.Renderer
	// Prompt is written before each line is read; empty disables it.
	Prompt string
}

// Run shows the page, then executes commands from in until it is exhausted
// or the user quits. Lines starting with '#' are comments.
func (r *Runner) Run(in io.Reader) error {
	if err := r.Exec("show"); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for r.prompt(); scanner.Scan(); r.prompt() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		err := r.Exec(line)
		var tradeErr *TradeError
		switch {
		case err == nil:
		case errors.Is(err, Stop):
			return nil
		case errors.As(err, &tradeErr):
			log.WithError(err).WithField("command", line).Debug("trade refused")
		default:
			fmt.Fprintf(r.Renderer.Out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (r *Runner) prompt() {
	if r.Prompt != "" {
		fmt.Fprint(r.Renderer.Out, r.Prompt)
	}
}

// Exec runs a single command line.
func (r *Runner) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	log.WithFields(log.Fields{"command": cmd, "args": args}).Debug("exec")

	f, s := r.Formatter, r.Session
	switch cmd {
	case "show", "dashboard":
		return r.Renderer.Write(f.DashboardMarkdown(s))
	case "prices":
		return r.Renderer.Write(f.PricesMarkdown(s.Book().All()))
	case "holdings":
		return r.Renderer.Write(f.HoldingsMarkdown(s.Positions()))
	case "balance":
		return r.Renderer.Write(f.BalanceMarkdown(s.Balance()))
	case "help":
		return r.Renderer.Write(Help)
	case "select":
		if len(args) != 1 {
			return fmt.Errorf("%w: select <coin>", MissingArgument)
		}
		if err := s.Select(args[0]); err != nil {
			return err
		}
		return r.Renderer.Write(f.TradeMarkdown(s.Selected(), s.Book().Symbols()))
	case "buy", "sell":
		symbol, quantity, err := tradeArgs(cmd, args)
		if err != nil {
			return err
		}
		trade := s.Buy
		if cmd == "sell" {
			trade = s.Sell
		}
		if _, err := trade(symbol, quantity); err != nil {
			return &TradeError{Err: err}
		}
		return r.Renderer.Write(f.BalanceMarkdown(s.Balance()))
	case "quit", "exit":
		return Stop
	default:
		return fmt.Errorf("%w: %s (try help)", UnknownCommand, cmd)
	}
}

// tradeArgs accepts "<quantity>" or "<coin> <quantity>".
func tradeArgs(cmd string, args []string) (symbol, quantity string, err error) {
	switch len(args) {
	case 1:
		return "", args[0], nil
	case 2:
		return args[0], args[1], nil
	default:
		return "", "", fmt.Errorf("%w: %s [coin] <quantity>", MissingArgument, cmd)
	}
}
