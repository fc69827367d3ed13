package listener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"portal/internal/application/bus"
	"portal/internal/application/entity"
	"portal/pkg/httpclient"

	"go.uber.org/zap"
)

// Webhook шаблон события и адрес, куда пересылается конверт
type Webhook struct {
	Pattern string
	URL     string
}

// ParseWebhooks разбирает "EVENT=url,GENERATE_*=url"
func ParseWebhooks(s string) ([]Webhook, error) {
	var res []Webhook
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pattern, target, ok := strings.Cut(part, "=")
		pattern, target = strings.TrimSpace(pattern), strings.TrimSpace(target)
		if !ok || pattern == "" || target == "" {
			return nil, fmt.Errorf("webhook %q: expected PATTERN=url", part)
		}
		u, err := url.ParseRequestURI(target)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("webhook %q: invalid url", part)
		}
		res = append(res, Webhook{Pattern: pattern, URL: target})
	}
	return res, nil
}

// WebhookForwarder отправляет конверт события POST-запросом; форматирование - дело получателя
type WebhookForwarder struct {
	client httpclient.HTTPClient
	logger *zap.SugaredLogger
}

func NewWebhookForwarder(client httpclient.HTTPClient, logger *zap.SugaredLogger) *WebhookForwarder {
	return &WebhookForwarder{client: client, logger: logger}
}

// Subscribe подписывает пересылку на каждый вебхук
func (w *WebhookForwarder) Subscribe(b *bus.Bus, hooks []Webhook) {
	for _, h := range hooks {
		b.Subscribe("webhook "+h.URL, h.Pattern, w.Handler(h.URL))
	}
}

func (w *WebhookForwarder) Handler(target string) bus.Handler {
	return func(ctx context.Context, env entity.Envelope) error {
		body, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal envelope: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Event", env.Event)
		req.Header.Set("X-Event-Id", env.ID.String())

		resp, err := w.client.Do(ctx, req)
		if err != nil {
			return fmt.Errorf("webhook %s: %w", target, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("webhook %s: status %d", target, resp.StatusCode)
		}
		w.logger.Debugf("[event: %s %s] forwarded to %s", env.Event, env.ID, target)
		return nil
	}
}
