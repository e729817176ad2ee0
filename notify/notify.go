package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 2 * time.Second

// Notification is a transient, dismissable message about the outcome of a
// user action.
type Notification struct {
	ID       uuid.UUID
	Title    string
	Message  string
	Status   Status
	Duration time.Duration
	Time     time.Time
}

func New(status Status, title, message string) Notification {
	return Notification{
		ID:       uuid.New(),
		Title:    title,
		Message:  message,
		Status:   status,
		Duration: DefaultDuration,
		Time:     time.Now(),
	}
}

func (n Notification) Failed() bool {
	return n.Status == StatusError
}

// Expired reports whether the notification should no longer be shown at t.
func (n Notification) Expired(t time.Time) bool {
	return n.Duration > 0 && t.Sub(n.Time) >= n.Duration
}

type Notifier interface {
	Notify(Notification)
}

// Func adapts a plain function to a Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	entry := log.WithFields(log.Fields{
		"id":       n.ID,
		"title":    n.Title,
		"status":   n.Status,
		"duration": n.Duration,
	})
	if n.Failed() {
		entry.Warn(n.Message)
		return
	}
	entry.Info(n.Message)
}

// Recorder keeps every notification it receives, newest last.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
