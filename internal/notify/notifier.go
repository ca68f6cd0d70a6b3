// Package notify defines the notification interface and implementations
// for price threshold alerts.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// AlertPayload contains the data needed to send a threshold alert.
type AlertPayload struct {
	Email       string
	ProductName string
	ProductURL  string
	ImageURL    string
	Price       float64
	Threshold   float64
	Timestamp   string

	// Cross-marketplace context, empty when no match was found.
	TargetTitle string
	TargetURL   string
	TargetPrice float64
}

// Subject is the one-line summary used for email subjects and embed titles.
func (a *AlertPayload) Subject() string {
	return fmt.Sprintf("Price Alert: %s", a.ProductName)
}

// Body is the plain-text message body.
func (a *AlertPayload) Body() string {
	body := fmt.Sprintf(
		"The price of %s dropped to %s, at or below your threshold of %s.\n\n%s\n",
		a.ProductName, FormatAmount(a.Price), FormatAmount(a.Threshold), a.ProductURL,
	)
	if a.TargetURL != "" {
		body += fmt.Sprintf("\nAlso listed as %q for %s:\n%s\n",
			a.TargetTitle, FormatAmount(a.TargetPrice), a.TargetURL)
	}
	if a.Timestamp != "" {
		body += fmt.Sprintf("\nObserved at %s.\n", a.Timestamp)
	}
	return body
}

// FormatAmount renders a price with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Notifier defines the interface for sending threshold alerts.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload) error
}

// Multi fans an alert out to every wrapped notifier. All notifiers are
// attempted; their errors are joined.
type Multi []Notifier

// SendAlert implements Notifier.
func (m Multi) SendAlert(ctx context.Context, alert *AlertPayload) error {
	var errs []error
	for _, n := range m {
		if err := n.SendAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendBatchAlert implements Notifier.
func (m Multi) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	var errs []error
	for _, n := range m {
		if err := n.SendBatchAlert(ctx, alerts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
