package notify

import (
	"log"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

// Notification is one human-readable finding line, attributed to the user
// label the detection ran for.
type Notification struct {
	User    string             `json:"user"`
	Kind    domain.PatternKind `json:"kind"`
	Message string             `json:"message"`
}

// Sink receives one notification per finding. Detectors never print;
// callers choose where the lines go.
type Sink interface {
	Notify(n Notification)
}

// LogSink writes notifications through the standard logger.
type LogSink struct{}

func (LogSink) Notify(n Notification) {
	log.Printf("%s: %s", n.User, n.Message)
}

// CaptureSink collects notifications in order. Used in tests and to return
// the notification stream from the HTTP API.
type CaptureSink struct {
	Notifications []Notification
}

func (c *CaptureSink) Notify(n Notification) {
	c.Notifications = append(c.Notifications, n)
}

// Discard drops everything.
type Discard struct{}

func (Discard) Notify(Notification) {}
