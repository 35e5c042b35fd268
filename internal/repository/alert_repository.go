package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricehunt/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const alertColumns = `id, user_id, product_id, target_price::float8, currency, active, triggered_at, created_at`

// alertRepository implements the AlertRepository interface using PostgreSQL.
type alertRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAlertRepository creates a new PostgreSQL-backed alert repository.
func NewAlertRepository(pool *pgxpool.Pool, logger zerolog.Logger) AlertRepository {
	return &alertRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "alert").Logger(),
	}
}

func scanAlert(row pgx.Row) (model.PriceAlert, error) {
	var a model.PriceAlert
	err := row.Scan(&a.ID, &a.UserID, &a.ProductID, &a.TargetPrice, &a.Currency, &a.Active, &a.TriggeredAt, &a.CreatedAt)
	return a, err
}

// Create inserts a new alert unless the user already has maxActive active
// alerts, in which case it returns model.ErrAlertLimit. The user row is locked
// for the duration so concurrent creates for the same user serialise.
// A maxActive of zero or less disables the limit.
func (r *alertRepository) Create(ctx context.Context, alert *model.PriceAlert, maxActive int) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var locked int
	err = tx.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, alert.UserID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("user_id", alert.UserID.String()).Msg("failed to lock user")
		return fmt.Errorf("failed to lock user: %w", err)
	}

	if maxActive > 0 {
		active, countErr := r.countActive(ctx, tx, alert.UserID)
		if countErr != nil {
			return countErr
		}
		if active >= maxActive {
			return model.ErrAlertLimit
		}
	}

	query := `
		INSERT INTO price_alerts (id, user_id, product_id, target_price, currency, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, query,
		alert.ID, alert.UserID, alert.ProductID, alert.TargetPrice, alert.Currency, alert.Active, alert.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("alert_id", alert.ID.String()).
			Str("product_id", alert.ProductID).
			Msg("failed to create alert")
		return fmt.Errorf("failed to create alert: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("alert_id", alert.ID.String()).Msg("failed to commit alert")
		return fmt.Errorf("failed to commit alert: %w", err)
	}

	return nil
}

// GetByID retrieves an alert by ID.
func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE id = $1`

	a, err := scanAlert(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("alert_id", id.String()).Msg("alert not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("alert_id", id.String()).Msg("failed to query alert")
		return nil, fmt.Errorf("failed to query alert: %w", err)
	}

	return &a, nil
}

// ListByUser returns a user's alerts, newest first.
func (r *alertRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE user_id = $1 ORDER BY created_at DESC, id`
	return r.list(ctx, query, userID)
}

// ListActive returns every alert that has not fired yet.
func (r *alertRepository) ListActive(ctx context.Context) ([]model.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE active ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *alertRepository) list(ctx context.Context, query string, args ...any) ([]model.PriceAlert, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query alerts")
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]model.PriceAlert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan alert row")
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating alert rows")
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// countActive counts a user's active alerts.
func (r *alertRepository) countActive(ctx context.Context, q rowQuerier, userID uuid.UUID) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM price_alerts WHERE user_id = $1 AND active`, userID,
	).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count alerts")
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

// Delete removes an alert owned by userID.
func (r *alertRepository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM price_alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("alert_id", id.String()).Msg("failed to delete alert")
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkTriggered deactivates an alert and stamps when it fired.
func (r *alertRepository) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE price_alerts SET active = false, triggered_at = $2 WHERE id = $1 AND active`, id, at,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("alert_id", id.String()).Msg("failed to mark alert triggered")
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlertNotFound
	}
	return nil
}
