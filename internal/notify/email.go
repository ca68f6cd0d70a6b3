package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailConfig holds SMTP settings. Credentials come from configuration or
// the environment, never from source.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailNotifier implements Notifier over SMTP. Alerts without a recipient
// address are skipped.
type EmailNotifier struct {
	cfg  EmailConfig
	send SendFunc
	now  func() time.Time
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSendFunc replaces smtp.SendMail, for tests.
func WithSendFunc(fn SendFunc) EmailOption {
	return func(e *EmailNotifier) {
		e.send = fn
	}
}

// NewEmailNotifier creates an EmailNotifier.
func NewEmailNotifier(cfg EmailConfig, opts ...EmailOption) *EmailNotifier {
	e := &EmailNotifier{cfg: cfg, send: smtp.SendMail, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SendAlert emails a single alert to its owner.
func (e *EmailNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	if alert.Email == "" {
		return nil
	}
	return e.deliver(ctx, alert.Email, alert.Subject(), alert.Body())
}

// SendBatchAlert sends one digest email per recipient.
func (e *EmailNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	byRecipient := make(map[string][]AlertPayload)
	for _, a := range alerts {
		if a.Email == "" {
			continue
		}
		byRecipient[a.Email] = append(byRecipient[a.Email], a)
	}

	recipients := make([]string, 0, len(byRecipient))
	for r := range byRecipient {
		recipients = append(recipients, r)
	}
	sort.Strings(recipients)

	var errs []error
	for _, r := range recipients {
		group := byRecipient[r]
		if len(group) == 1 {
			errs = append(errs, e.deliver(ctx, r, group[0].Subject(), group[0].Body()))
			continue
		}

		var body strings.Builder
		for i := range group {
			if i > 0 {
				body.WriteString("\n---\n\n")
			}
			body.WriteString(group[i].Body())
		}
		subject := fmt.Sprintf("Price Alert: %d products at or below your threshold", len(group))
		errs = append(errs, e.deliver(ctx, r, subject, body.String()))
	}
	return errors.Join(errs...)
}

func (e *EmailNotifier) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		metrics.NotificationDuration.WithLabelValues("email").Observe(time.Since(start).Seconds())
	}()

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	msg := e.message(to, subject, body)
	if err := e.send(addr, auth, e.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

func (e *EmailNotifier) message(to, subject, body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", e.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}

// sanitizeHeader strips line breaks so product names cannot inject headers.
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
