package worker

// stock_watch.go
// Background goroutine that periodically scans every tenant for items below
// minimum stock or close to expiry and enqueues alert mail jobs. A Redis
// SETNX key per item per day deduplicates, so each item alerts at most once
// every 24h regardless of how often the scan runs.

import (
	"context"
	"fmt"
	"time"

	"salonpos/internal/model"
	"salonpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StockWatchConfig holds all dependencies for the watch goroutine.
type StockWatchConfig struct {
	Items      repository.ItemRepository
	RDB        *redis.Client
	Dispatcher *Dispatcher
	Recipient  string
	WarnDays   int
	Interval   time.Duration
}

// StartStockWatch launches the periodic scanner. It respects the context
// for graceful shutdown.
func StartStockWatch(ctx context.Context, cfg StockWatchConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("stock_watch: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_watch: shutting down")
				return
			case <-ticker.C:
				scanOnce(ctx, cfg)
			}
		}
	}()
}

func scanOnce(ctx context.Context, cfg StockWatchConfig) {
	warn := time.Duration(cfg.WarnDays) * 24 * time.Hour
	items, err := cfg.Items.NeedingReplenishment(ctx, uuid.Nil, warn)
	if err != nil {
		log.Error().Err(err).Msg("stock_watch: scan failed")
		return
	}
	if len(items) == 0 {
		return
	}

	// Group fresh alerts by tenant; items already alerted today are skipped.
	today := time.Now().Format("2006-01-02")
	byTenant := make(map[uuid.UUID][]AlertItem)
	for i := range items {
		it := &items[i]
		dedupKey := fmt.Sprintf("alert:%s:%s", it.ID, today)
		set, err := cfg.RDB.SetNX(ctx, dedupKey, 1, 24*time.Hour).Result()
		if err != nil {
			log.Warn().Err(err).Msg("stock_watch: dedup check failed, skipping item")
			continue
		}
		if !set {
			continue // already alerted today
		}
		byTenant[it.RestaurantID] = append(byTenant[it.RestaurantID], toAlertItem(it, warn))
	}

	for tenant, alerts := range byTenant {
		payload := AlertPayload{
			RestaurantID: tenant.String(),
			Recipient:    cfg.Recipient,
			Items:        alerts,
		}
		if err := cfg.Dispatcher.EnqueueAlert(ctx, payload); err != nil {
			log.Error().Err(err).Str("restaurant_id", tenant.String()).Msg("stock_watch: enqueue failed")
			continue
		}
		log.Info().
			Str("restaurant_id", tenant.String()).
			Int("items", len(alerts)).
			Msg("stock_watch: alert enqueued")
	}
}

func toAlertItem(it *model.Item, warn time.Duration) AlertItem {
	return AlertItem{
		Name:         it.Name,
		CurrentStock: it.CurrentStock.String(),
		MinStock:     it.MinStock.String(),
		Unit:         it.PurchaseUnit,
		Expiring:     it.ExpiresWithin(warn),
	}
}
