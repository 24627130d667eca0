package worker

// lowstock_cron.go
// Background goroutine that periodically sweeps for variants at or below
// their low-stock threshold. The checkout path already raises an alert at the
// moment a sale crosses the threshold; the sweep catches levels that got
// there through receiving corrections, stocktakes or threshold edits.

import (
	"context"
	"fmt"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/rs/zerolog/log"
)

const sweepTickInterval = 15 * time.Minute

// LowStockCronConfig holds all dependencies for the sweep goroutine.
type LowStockCronConfig struct {
	Variants      repository.VariantRepository
	Notifications repository.NotificationRepository
	Dispatcher    *Dispatcher
}

// StartLowStockCron launches a background goroutine that ticks every
// sweepTickInterval and raises one alert per depleted SKU. It respects the
// context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	go func() {
		ticker := time.NewTicker(sweepTickInterval)
		defer ticker.Stop()

		log.Info().Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg LowStockCronConfig) {
	variants, err := cfg.Variants.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to list variants")
		return
	}

	raised := 0
	for i := range variants {
		v := &variants[i]
		if v.StockQuantity > v.LowStockThreshold {
			continue
		}
		// Same dedup rule as the checkout path: one open alert per SKU.
		exists, err := cfg.Notifications.HasUnread(ctx, model.NotifLowStock, v.SKU)
		if err != nil {
			log.Error().Err(err).Str("sku", v.SKU).Msg("lowstock_cron: dedup check failed")
			continue
		}
		if exists {
			continue
		}

		msg := fmt.Sprintf("%s is down to %d units (threshold %d)", v.SKU, v.StockQuantity, v.LowStockThreshold)
		if err := cfg.Notifications.Create(ctx, &model.Notification{
			Title:   model.NotifLowStock,
			Message: msg,
			Link:    "/inventory",
		}); err != nil {
			log.Error().Err(err).Str("sku", v.SKU).Msg("lowstock_cron: failed to create notification")
			continue
		}
		if cfg.Dispatcher != nil {
			cfg.Dispatcher.EnqueueAlert(ctx, model.NotifLowStock, msg)
		}
		raised++
	}

	if raised > 0 {
		log.Info().Int("alerts", raised).Msg("lowstock_cron: sweep finished")
	}
}
