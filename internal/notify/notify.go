// Package notify delivers release notifications over ntfy. An unconfigured
// topic degrades to a no-op service so the poller never has to care whether
// notifications are wired up.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/shared"
)

const (
	defaultServer  = "https://ntfy.sh"
	defaultTimeout = 10 * time.Second
	userAgent      = "herald/1.0"
)

// Notification is a single push message about a new release.
type Notification struct {
	ID         string
	Title      string
	Body       string
	ArtworkURL string
	Tags       []string
	Priority   string
}

// Notifier sends release notifications.
type Notifier interface {
	// Notify delivers one notification. Delivery is best effort; a failed
	// send returns an error but must not be retried by the caller.
	Notify(ctx context.Context, n Notification) error

	// Cancel withdraws a previously sent notification where the transport
	// supports it. Safe to call for ids that were never sent.
	Cancel(id string)
}

// NtfyService publishes notifications to an ntfy topic.
type NtfyService struct {
	server     string
	topic      string
	httpClient *http.Client
	logger     *log.Logger
}

// NewNtfyService creates a notifier for the given topic. An empty topic
// returns a no-op notifier instead.
func NewNtfyService(topic string, client *http.Client, logger *log.Logger) Notifier {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if topic == "" {
		logger.Debug("no ntfy topic configured, notifications disabled")
		return &noopNotifier{}
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	server := defaultServer
	if strings.Contains(topic, "://") {
		// Full URLs double as custom server endpoints.
		idx := strings.LastIndex(topic, "/")
		server, topic = topic[:idx], topic[idx+1:]
	}

	return &NtfyService{
		server:     server,
		topic:      topic,
		httpClient: client,
		logger:     logger,
	}
}

// Notify publishes the notification body to the configured topic. Metadata
// travels in headers per the ntfy publish protocol.
func (s *NtfyService) Notify(ctx context.Context, n Notification) error {
	endpoint := fmt.Sprintf("%s/%s", s.server, s.topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(n.Body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if n.Title != "" {
		req.Header.Set("Title", n.Title)
	}
	if len(n.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(n.Tags, ","))
	}
	if n.Priority != "" {
		req.Header.Set("Priority", n.Priority)
	}
	if n.ArtworkURL != "" {
		req.Header.Set("Attach", n.ArtworkURL)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: ntfy status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	s.logger.Debug("notification sent", "id", n.ID, "title", n.Title)
	return nil
}

// Cancel is a no-op. ntfy has no retraction endpoint; a published message
// stays published.
func (s *NtfyService) Cancel(id string) {
	s.logger.Debug("cancel requested for delivered notification", "id", id)
}

// Configured reports whether the notifier actually delivers notifications
// rather than discarding them.
func Configured(n Notifier) bool {
	_, noop := n.(*noopNotifier)
	return !noop
}

type noopNotifier struct{}

func (n *noopNotifier) Notify(ctx context.Context, _ Notification) error {
	return nil
}

func (n *noopNotifier) Cancel(string) {}
