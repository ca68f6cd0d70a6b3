package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
)

const (
	colorGreen  = 0x2ECC71 // 10%+ under threshold
	colorYellow = 0xF1C40F // 5-10% under
	colorOrange = 0xE67E22 // within 5%
)

// Discord allows at most 10 embeds per message.
const maxEmbeds = 10

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// SendAlert sends a single alert as a Discord embed.
func (d *DiscordNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(alert)},
	}
	return d.post(ctx, payload)
}

// SendBatchAlert sends multiple alerts as a single Discord message.
func (d *DiscordNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	if len(alerts) == 0 {
		return nil
	}

	shown := alerts
	if len(alerts) > maxEmbeds {
		// Keep the last slot for the overflow summary.
		shown = alerts[:maxEmbeds-1]
	}
	embeds := make([]discordEmbed, 0, maxEmbeds)
	for i := range shown {
		embeds = append(embeds, buildEmbed(&shown[i]))
	}

	if rest := len(alerts) - len(shown); rest > 0 {
		embeds = append(embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more price alerts", rest),
			Color:       colorYellow,
			Description: "Run `mpt products list` for the full list.",
		})
	}

	return d.post(ctx, discordWebhookPayload{Embeds: embeds})
}

func buildEmbed(alert *AlertPayload) discordEmbed {
	embed := discordEmbed{
		Title: alert.Subject(),
		URL:   alert.ProductURL,
		Color: savingsColor(alert.Price, alert.Threshold),
		Fields: []discordEmbedField{
			{Name: "Price", Value: FormatAmount(alert.Price), Inline: true},
			{Name: "Threshold", Value: FormatAmount(alert.Threshold), Inline: true},
		},
	}

	if alert.TargetURL != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:  "Also Listed",
			Value: fmt.Sprintf("[%s](%s) at %s", alert.TargetTitle, alert.TargetURL, FormatAmount(alert.TargetPrice)),
		})
	}
	if alert.Timestamp != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "Observed", Value: alert.Timestamp, Inline: true,
		})
	}
	if alert.ImageURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: alert.ImageURL}
	}

	return embed
}

func savingsColor(price, threshold float64) int {
	if threshold <= 0 {
		return colorOrange
	}
	under := (threshold - price) / threshold
	switch {
	case under >= 0.10:
		return colorGreen
	case under >= 0.05:
		return colorYellow
	default:
		return colorOrange
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.WithLabelValues("discord").Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.New("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
