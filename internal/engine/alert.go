package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
	"github.com/donaldgifford/market-price-tracker/internal/notify"
	"github.com/donaldgifford/market-price-tracker/pkg/price"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// batchThreshold is the number of alerts at which a single batch send
// replaces individual sends.
const batchThreshold = 5

// Triggered reports whether latest is at or below threshold. A missing
// threshold or an unavailable price never triggers.
func Triggered(latest float64, threshold *float64) bool {
	if threshold == nil || price.IsUnavailable(latest) {
		return false
	}
	return latest <= *threshold
}

// evaluate checks the product's latest price against its threshold and
// builds the alert when it triggers.
func (eng *Engine) evaluate(p *domain.TrackedProduct, cmp *domain.Comparison) *notify.AlertPayload {
	latest, ok := p.Latest()
	if !ok || !Triggered(float64(latest.Price), p.Threshold) {
		return nil
	}
	metrics.ThresholdTriggersTotal.Inc()
	eng.log.Info("price threshold triggered",
		"key", p.Key, "price", float64(latest.Price), "threshold", *p.Threshold)
	return buildAlertPayload(p, latest, cmp)
}

func buildAlertPayload(
	p *domain.TrackedProduct,
	latest domain.PricePoint,
	cmp *domain.Comparison,
) *notify.AlertPayload {
	a := &notify.AlertPayload{
		Email:       p.OwnerEmail,
		ProductName: p.Name,
		ProductURL:  p.Key,
		Price:       float64(latest.Price),
		Threshold:   *p.Threshold,
		Timestamp:   latest.Timestamp,
	}
	if a.ProductName == "" {
		a.ProductName = p.Key
	}
	if cmp != nil {
		a.ImageURL = cmp.Source.ImageURL
		if best := cmp.Match.Best; best != nil && !cmp.TargetPrice.IsUnavailable() {
			a.TargetTitle = best.Listing.Title
			a.TargetURL = best.Listing.URL
			a.TargetPrice = float64(cmp.TargetPrice)
		}
	}
	return a
}

// dispatch sends alerts, batching when there are enough of them. Failures
// are logged and counted; they never fail the tracking action.
func (eng *Engine) dispatch(ctx context.Context, alerts []notify.AlertPayload) error {
	if eng.notifier == nil || len(alerts) == 0 {
		return nil
	}

	if len(alerts) >= batchThreshold {
		if err := eng.notifier.SendBatchAlert(ctx, alerts); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			eng.log.Error("batch alert delivery failed", "alerts", len(alerts), "error", err)
			return fmt.Errorf("sending batch alert: %w", err)
		}
		metrics.NotificationsSentTotal.Add(float64(len(alerts)))
		return nil
	}

	// One owner's bad address must not cost the others their alert.
	var errs []error
	for i := range alerts {
		if err := eng.notifier.SendAlert(ctx, &alerts[i]); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			eng.log.Error("alert delivery failed", "key", alerts[i].ProductURL, "error", err)
			errs = append(errs, fmt.Errorf("sending alert for %s: %w", alerts[i].ProductURL, err))
			continue
		}
		metrics.NotificationsSentTotal.Inc()
	}
	return errors.Join(errs...)
}
