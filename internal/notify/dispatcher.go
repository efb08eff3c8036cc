// Package notify shows pipeline outcomes to the user.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/lazyvibe/ghopen/internal/model"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultTitle is used when a notification has no title.
const DefaultTitle = "GHOpen"

const maxMessageLen = 800

// Notification is one user-facing message.
type Notification struct {
	Title      string
	Body       string
	Kind       Kind
	Repository string
	Timestamp  time.Time
}

// Notifier shows notifications. Show is fire-and-forget.
type Notifier interface {
	Show(ctx context.Context, n Notification)
}

// Dispatcher sends notifications to the desktop and an optional webhook.
type Dispatcher struct {
	cfg    model.NotificationConfig
	client *http.Client
	log    zerolog.Logger
	alert  func(title, message string) error
}

// NewDispatcher creates a Dispatcher with sensible defaults.
func NewDispatcher(cfg model.NotificationConfig, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: log.With().Str("component", "notify").Logger(),
		alert: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Show delivers n. Delivery failures are logged and otherwise ignored.
func (d *Dispatcher) Show(ctx context.Context, n Notification) {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		title = DefaultTitle
	}
	message := strings.TrimSpace(n.Body)
	if message == "" {
		message = string(n.Kind)
	}
	message = ansi.Truncate(message, maxMessageLen, "...")
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	d.log.Info().
		Str("kind", string(n.Kind)).
		Str("title", title).
		Str("repository", n.Repository).
		Msg(message)

	if d.cfg.Desktop {
		if err := d.alert(title, message); err != nil {
			d.log.Warn().Err(err).Msg("desktop notification failed")
		}
	}

	if d.cfg.WebhookURL != "" {
		if err := d.post(ctx, title, message, n); err != nil {
			d.log.Warn().Err(err).Str("url", d.cfg.WebhookURL).Msg("webhook notification failed")
		}
	}
}

func (d *Dispatcher) post(ctx context.Context, title, message string, n Notification) error {
	payload := map[string]any{
		"repository": n.Repository,
		"event":      n.Kind,
		"title":      title,
		"message":    message,
		"timestamp":  n.Timestamp.Unix(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
