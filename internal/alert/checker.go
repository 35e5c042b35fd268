// Package alert evaluates active price alerts in the background and notifies
// their owners when a tracked product drops to the target price.
package alert

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"pricehunt/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Evaluator is the subset of the alert service the checker needs.
type Evaluator interface {
	ListActive(ctx context.Context) ([]model.PriceAlert, error)
	Evaluate(ctx context.Context, alert model.PriceAlert) (price float64, triggered bool, err error)
	MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Notifier delivers a triggered alert to its owner.
type Notifier interface {
	Notify(ctx context.Context, alert model.PriceAlert, price float64) error
}

// Checker periodically evaluates every active alert.
type Checker struct {
	alerts   Evaluator
	notifier Notifier
	interval time.Duration
	workers  int
	logger   zerolog.Logger
	now      func() time.Time
}

// NewChecker creates a checker that runs every interval with at most workers
// concurrent evaluations.
func NewChecker(alerts Evaluator, notifier Notifier, interval time.Duration, workers int, logger zerolog.Logger) *Checker {
	if workers < 1 {
		workers = 1
	}
	return &Checker{
		alerts:   alerts,
		notifier: notifier,
		interval: interval,
		workers:  workers,
		logger:   logger.With().Str("component", "alert-checker").Logger(),
		now:      time.Now,
	}
}

// Run checks alerts immediately and then on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	c.logger.Info().
		Dur("interval", c.interval).
		Int("workers", c.workers).
		Msg("alert checker started")

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.pass(ctx)

		select {
		case <-ctx.Done():
			c.logger.Info().Msg("alert checker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (c *Checker) pass(ctx context.Context) {
	start := time.Now()
	checked, triggered, err := c.RunOnce(ctx)
	if err != nil && ctx.Err() == nil {
		c.logger.Error().Err(err).Msg("alert check pass finished with errors")
	}
	c.logger.Debug().
		Int("checked", checked).
		Int("triggered", triggered).
		Dur("duration", time.Since(start)).
		Msg("alert check pass")
}

// RunOnce evaluates every active alert once. Per-alert failures do not stop
// the pass; they are joined into the returned error.
func (c *Checker) RunOnce(ctx context.Context) (checked, triggered int, err error) {
	active, err := c.alerts.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list active alerts: %w", err)
	}

	var (
		nChecked   atomic.Int64
		nTriggered atomic.Int64
		errs       = make([]error, len(active))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, a := range active {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fired, err := c.check(gctx, a)
			if err != nil {
				errs[i] = err
				return nil
			}
			nChecked.Add(1)
			if fired {
				nTriggered.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(nChecked.Load()), int(nTriggered.Load()), errors.Join(append(errs, ctx.Err())...)
}

// check evaluates one alert and, when it fires, notifies before deactivating
// it so a failed delivery is retried on the next pass.
func (c *Checker) check(ctx context.Context, a model.PriceAlert) (bool, error) {
	price, triggered, err := c.alerts.Evaluate(ctx, a)
	if err != nil {
		c.logger.Warn().Err(err).Str("alert_id", a.ID.String()).Msg("failed to evaluate alert")
		return false, err
	}
	if !triggered {
		return false, nil
	}

	if err := c.notifier.Notify(ctx, a, price); err != nil {
		c.logger.Warn().Err(err).
			Str("alert_id", a.ID.String()).
			Str("user_id", a.UserID.String()).
			Msg("failed to deliver alert notification")
		return false, fmt.Errorf("notify alert %s: %w", a.ID, err)
	}

	if err := c.alerts.MarkTriggered(ctx, a.ID, c.now()); err != nil {
		if errors.Is(err, model.ErrAlertNotFound) {
			// Deleted or already fired since it was listed.
			return false, nil
		}
		return false, fmt.Errorf("mark alert %s triggered: %w", a.ID, err)
	}

	c.logger.Info().
		Str("alert_id", a.ID.String()).
		Str("product_id", a.ProductID).
		Float64("price", price).
		Float64("target_price", a.TargetPrice).
		Msg("price alert triggered")

	return true, nil
}
