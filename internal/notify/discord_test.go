package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
)

func testAlert() AlertPayload {
	return AlertPayload{
		Email:       "owner@example.com",
		ProductName: "Acme Blender X100",
		ProductURL:  "https://www.example.in/dp/B0ABCDEF12",
		ImageURL:    "https://images.example.in/acme.jpg",
		Price:       2999,
		Threshold:   3000,
		Timestamp:   "2024-05-01 10:00:00",
	}
}

func TestDiscordNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		price      float64
		statusCode int
		wantErr    bool
		errMsg     string
		wantColor  int
	}{
		{
			name:       "just under threshold is orange",
			price:      2999,
			statusCode: http.StatusNoContent,
			wantColor:  colorOrange,
		},
		{
			name:       "7 percent under is yellow",
			price:      2790,
			statusCode: http.StatusNoContent,
			wantColor:  colorYellow,
		},
		{
			name:       "20 percent under is green",
			price:      2400,
			statusCode: http.StatusNoContent,
			wantColor:  colorGreen,
		},
		{
			name:       "discord returns 429 rate limited",
			price:      2999,
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			price:      2999,
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			alert := testAlert()
			alert.Price = tt.price

			d := NewDiscordNotifier(srv.URL)
			err := d.SendAlert(context.Background(), &alert)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Contains(t, embed.Title, alert.ProductName)
			assert.Equal(t, alert.ProductURL, embed.URL)
			require.NotNil(t, embed.Thumbnail)
			assert.Equal(t, alert.ImageURL, embed.Thumbnail.URL)

			fieldMap := make(map[string]string)
			for _, f := range embed.Fields {
				fieldMap[f.Name] = f.Value
			}
			assert.Equal(t, FormatAmount(tt.price), fieldMap["Price"])
			assert.Equal(t, "3000.00", fieldMap["Threshold"])
		})
	}
}

func TestDiscordNotifier_SendAlert_WithTarget(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alert := testAlert()
	alert.ImageURL = ""
	alert.TargetTitle = "Acme Blender X100 2 Litre"
	alert.TargetURL = "https://shop.example.com/p/acme"
	alert.TargetPrice = 2899

	require.NoError(t, NewDiscordNotifier(srv.URL).SendAlert(context.Background(), &alert))
	require.Len(t, received.Embeds, 1)
	assert.Nil(t, received.Embeds[0].Thumbnail)

	var also string
	for _, f := range received.Embeds[0].Fields {
		if f.Name == "Also Listed" {
			also = f.Value
		}
	}
	assert.Equal(t, "[Acme Blender X100 2 Litre](https://shop.example.com/p/acme) at 2899.00", also)
}

func TestDiscordNotifier_SendBatchAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		count      int
		wantEmbeds int
		wantCalls  int
	}{
		{name: "three alerts", count: 3, wantEmbeds: 3, wantCalls: 1},
		{name: "exactly the embed limit", count: maxEmbeds, wantEmbeds: maxEmbeds, wantCalls: 1},
		{name: "overflow is summarized", count: 14, wantEmbeds: maxEmbeds, wantCalls: 1},
		{name: "empty batch sends nothing", count: 0, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				received discordWebhookPayload
				calls    int
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			alerts := make([]AlertPayload, tt.count)
			for i := range alerts {
				alerts[i] = testAlert()
			}

			require.NoError(t, NewDiscordNotifier(srv.URL).SendBatchAlert(context.Background(), alerts))
			assert.Equal(t, tt.wantCalls, calls)
			assert.Len(t, received.Embeds, tt.wantEmbeds)
		})
	}
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1") // nothing listening
	alert := testAlert()
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	alert := testAlert()
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}

func getNotificationHistogramSampleCount(backend string) uint64 {
	h, ok := metrics.NotificationDuration.WithLabelValues(backend).(prometheus.Histogram)
	if !ok {
		return 0
	}
	pb := &dto.Metric{}
	_ = h.Write(pb)
	return pb.GetHistogram().GetSampleCount()
}

func TestSendAlert_ObservesNotificationDuration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := getNotificationHistogramSampleCount("discord")

	alert := testAlert()
	require.NoError(t, NewDiscordNotifier(srv.URL).SendAlert(context.Background(), &alert))

	after := getNotificationHistogramSampleCount("discord")
	assert.Greater(t, after, before, "NotificationDuration histogram sample count should increase")
}

// compile-time interface check.
var _ Notifier = (*DiscordNotifier)(nil)
