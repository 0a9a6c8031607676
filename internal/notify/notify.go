package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"valtech/internal/domain"
)

// Notifier delivers short operational messages. Implementations never block
// the caller on delivery and never report errors.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Notify(context.Context, string) {}

// TransportError describes a failed webhook delivery.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook delivery: %v", e.Err)
	}
	return fmt.Sprintf("webhook delivery: status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return domain.ErrTransport }

// DiscordOptions configures the webhook sink.
type DiscordOptions struct {
	WebhookURL string
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// PerMinute caps deliveries; messages over the cap are dropped.
	PerMinute int
	Burst     int
}

// Discord posts messages to a Discord webhook in background goroutines.
type Discord struct {
	url     string
	client  *http.Client
	logger  zerolog.Logger
	limiter *rate.Limiter
	wg      sync.WaitGroup
}

// NewDiscord builds a Discord notifier.
func NewDiscord(opts DiscordOptions) *Discord {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	perMinute := opts.PerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 5
	}
	return &Discord{
		url:     strings.TrimSpace(opts.WebhookURL),
		client:  client,
		logger:  opts.Logger,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

// New returns a Discord notifier when webhookURL is set, otherwise Nop.
func New(webhookURL string, logger zerolog.Logger) Notifier {
	if strings.TrimSpace(webhookURL) == "" {
		return Nop{}
	}
	return NewDiscord(DiscordOptions{WebhookURL: webhookURL, Logger: logger})
}

// Notify queues message for delivery. The request is detached from ctx
// cancellation so shutdown messages still go out.
func (d *Discord) Notify(ctx context.Context, message string) {
	if !d.limiter.Allow() {
		d.logger.Warn().Str("message", message).Msg("notification dropped: webhook rate limit")
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.client.Timeout+time.Second)
		defer cancel()
		if err := d.send(sendCtx, message); err != nil {
			d.logger.Error().Err(err).Str("message", message).Msg("notification failed")
		}
	}()
}

// Flush waits for in-flight deliveries or until ctx is done.
func (d *Discord) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Discord) send(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Status: resp.StatusCode}
	}
	return nil
}

// Flush waits for pending deliveries when n supports it.
func Flush(ctx context.Context, n Notifier) error {
	if f, ok := n.(interface{ Flush(context.Context) error }); ok {
		return f.Flush(ctx)
	}
	return nil
}
