package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"salonpos/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertItem is one replenishment line in an alert mail.
type AlertItem struct {
	Name         string `json:"name"`
	CurrentStock string `json:"current_stock"`
	MinStock     string `json:"min_stock"`
	Unit         string `json:"unit"`
	Expiring     bool   `json:"expiring"`
}

// AlertPayload is the job body the stock watcher enqueues.
type AlertPayload struct {
	RestaurantID string      `json:"restaurant_id"`
	Recipient    string      `json:"recipient"`
	Items        []AlertItem `json:"items"`
}

// AlertWorker delivers replenishment alert mails. Sends go through the
// circuit breaker so a downed SMTP relay fast-fails instead of tying up
// the pool.
type AlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb}
}

func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("malformed alert payload: %w", err)
	}
	if payload.Recipient == "" || len(payload.Items) == 0 {
		log.Warn().Str("restaurant_id", payload.RestaurantID).Msg("alert job without recipient or items, skipping")
		return nil
	}

	subject := fmt.Sprintf("Replenishment alert: %d item(s) need attention", len(payload.Items))
	body := buildAlertBody(payload.Items)

	return w.cb.Execute(func() error {
		return w.mailer.Send(payload.Recipient, subject, body)
	})
}

func buildAlertBody(items []AlertItem) string {
	var b strings.Builder
	b.WriteString("The following items are below minimum stock or close to expiry:\n\n")
	for _, it := range items {
		flag := ""
		if it.Expiring {
			flag = " [expiring]"
		}
		fmt.Fprintf(&b, "  - %s: %s / min %s %s%s\n", it.Name, it.CurrentStock, it.MinStock, it.Unit, flag)
	}
	b.WriteString("\nReview the shopping list for suggested purchase quantities.\n")
	return b.String()
}
