package display

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/gruis/papertrade/notify"
)

const DefaultStyle = "notty"

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFB2"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E94090"))
)

// Renderer writes markdown to a terminal. With Plain set the markdown is
// written as is.
type Renderer struct {
	Out   io.Writer
	Style string
	Width int
	Plain bool
}

func (r Renderer) Render(md string) (string, error) {
	if r.Plain {
		return md, nil
	}
	style := r.Style
	if style == "" {
		style = DefaultStyle
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return tr.Render(md)
}

func (r Renderer) Write(md string) error {
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.Out, out)
	return err
}

// Toast formats a notification as a single status line.
func Toast(n notify.Notification) string {
	mark, style := "✔", successStyle
	if n.Failed() {
		mark, style = "✘", errorStyle
	}
	return style.Render(mark+" "+n.Title) + " " + n.Message
}

// ToastNotifier prints every notification to Out as it arrives.
type ToastNotifier struct {
	Out io.Writer
	Now func() time.Time
}

func (t ToastNotifier) Notify(n notify.Notification) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	if n.Expired(now()) {
		return
	}
	fmt.Fprintln(t.Out, Toast(n))
}
