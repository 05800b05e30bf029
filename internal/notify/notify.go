// Package notify announces published builds on a NATS subject.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// EventPublished is the type of the event sent after a successful publish.
const EventPublished = "site.published"

// Event is the JSON payload of a publication notice.
type Event struct {
	Type      string    `json:"type"`
	BuildID   string    `json:"build_id"`
	OutputDir string    `json:"output_dir"`
	Revision  string    `json:"revision,omitempty"`
	Pages     int       `json:"pages"`
	Assets    int       `json:"assets"`
	Timestamp time.Time `json:"timestamp"`
}

// conn is the subset of *nats.Conn the notifier uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Notifier publishes events to one subject. The zero URL disables it.
type Notifier struct {
	url     string
	subject string
	connect func(url string) (conn, error)
}

// New creates a notifier for a NATS server URL and subject.
func New(url, subject string) *Notifier {
	return &Notifier{
		url:     url,
		subject: subject,
		connect: func(url string) (conn, error) {
			return nats.Connect(url, nats.Name("sitegen"), nats.Timeout(5*time.Second))
		},
	}
}

// Enabled reports whether a server URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Notify connects, publishes ev, flushes and disconnects. A disabled notifier does nothing.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	if !n.Enabled() {
		return nil
	}
	if ev.Type == "" {
		ev.Type = EventPublished
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	c, err := n.connect(n.url)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer c.Close()

	if err := c.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := c.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}

	slog.Debug("Published build notice", "subject", n.subject, "build_id", ev.BuildID)
	return nil
}
