package subscriptionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	email              TEXT PRIMARY KEY,
	provider           TEXT NOT NULL,
	customer_id        TEXT NOT NULL DEFAULT '',
	price_id           TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	current_period_end TIMESTAMPTZ,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresRepository implements billing.SubscriptionRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the subscriptions table when missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresRepository) Upsert(ctx context.Context, sub billing.Subscription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (email, provider, customer_id, price_id, status, current_period_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			provider = EXCLUDED.provider,
			customer_id = EXCLUDED.customer_id,
			price_id = EXCLUDED.price_id,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = EXCLUDED.updated_at
	`, emailKey(sub.Email), sub.Provider, sub.CustomerID, sub.PriceID, sub.Status, sub.CurrentPeriodEnd, updatedAt(sub))
	return err
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (billing.Subscription, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT email, provider, customer_id, price_id, status, current_period_end, updated_at
		FROM subscriptions
		WHERE email = $1
	`, emailKey(email))
	var (
		sub       billing.Subscription
		periodEnd *time.Time
	)
	if err := row.Scan(&sub.Email, &sub.Provider, &sub.CustomerID, &sub.PriceID, &sub.Status, &periodEnd, &sub.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.Subscription{}, false, nil
		}
		return billing.Subscription{}, false, err
	}
	sub.CurrentPeriodEnd = periodEnd
	return sub, true, nil
}

func updatedAt(sub billing.Subscription) time.Time {
	if sub.UpdatedAt.IsZero() {
		return time.Now().UTC()
	}
	return sub.UpdatedAt
}

var _ billing.SubscriptionRepository = (*PostgresRepository)(nil)
