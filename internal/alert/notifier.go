package alert

import (
	"context"

	"pricehunt/internal/model"
	"pricehunt/internal/money"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// LogNotifier records triggered alerts in the log. It stands in for push or
// email delivery.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that writes to logger.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alert-notifier").Logger()}
}

// Notify logs the alert with a display price.
func (n *LogNotifier) Notify(ctx context.Context, a model.PriceAlert, price float64) error {
	display, err := money.Format(price, a.Currency, language.English)
	if err != nil {
		return err
	}

	n.logger.Info().
		Str("user_id", a.UserID.String()).
		Str("product_id", a.ProductID).
		Str("price", display).
		Msg("price dropped to target")
	return nil
}
