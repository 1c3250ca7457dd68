package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/riskibarqy/prediction-cup/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookNotifier posts point change notifications as JSON to a single endpoint.
type WebhookNotifier struct {
	client  *http.Client
	url     string
	token   string
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewWebhookNotifier(cfg WebhookConfig, logger *logging.Logger) (*WebhookNotifier, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookNotifier{
		client:  &http.Client{Timeout: timeout},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		logger:  logger.Named("notify_webhook"),
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}, nil
}

func (n *WebhookNotifier) NotifyPointChange(ctx context.Context, notification cup.PointChangeNotification) error {
	// Only transient failures count against the breaker.
	var permanent error
	err := n.breaker.Execute(func() error {
		postErr := n.post(ctx, notification)
		if postErr != nil && !crerr.Is(postErr, errWebhookTransient) {
			permanent = postErr
			return nil
		}
		return postErr
	})
	if permanent != nil {
		return permanent
	}
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		n.logger.WarnContext(ctx, "webhook circuit breaker rejected notification",
			"state", n.breaker.State(),
			"user_id", notification.UserID,
			"betting_round_id", notification.BettingRoundID,
		)
		return fmt.Errorf("point change webhook is temporarily unavailable: %w", err)
	}
	return err
}

func (n *WebhookNotifier) post(ctx context.Context, notification cup.PointChangeNotification) error {
	body, err := sonic.Marshal(notification)
	if err != nil {
		return crerr.Wrap(err, "marshal point change notification")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.webhook_url", n.url),
			attribute.String("notify.severity", string(notification.Severity)),
			attribute.String("notify.user_id", notification.UserID),
			attribute.Int64("notify.betting_round_id", notification.BettingRoundID),
			attribute.String("notify.request_curl_preview", buildCurlPreview(n.url, truncateForLog(string(body), 2048), n.token != "")),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-Severity", string(notification.Severity))
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post webhook url=%s: %v", errWebhookTransient, n.url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: post webhook status=%d body=%s", errWebhookTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return crerr.Newf("post webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	n.logger.DebugContext(ctx, "point change notification delivered",
		"user_id", notification.UserID,
		"betting_round_id", notification.BettingRoundID,
		"severity", notification.Severity,
	)
	return nil
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}

func buildCurlPreview(target, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(target))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
