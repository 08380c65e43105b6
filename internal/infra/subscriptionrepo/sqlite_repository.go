package subscriptionrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	email              TEXT PRIMARY KEY,
	provider           TEXT NOT NULL,
	customer_id        TEXT NOT NULL DEFAULT '',
	price_id           TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	current_period_end TEXT,
	updated_at         TEXT NOT NULL
)`

// SQLiteRepository stores subscriptions in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Upsert(ctx context.Context, sub billing.Subscription) error {
	var periodEnd any
	if sub.CurrentPeriodEnd != nil {
		periodEnd = sub.CurrentPeriodEnd.UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (email, provider, customer_id, price_id, status, current_period_end, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			provider = excluded.provider,
			customer_id = excluded.customer_id,
			price_id = excluded.price_id,
			status = excluded.status,
			current_period_end = excluded.current_period_end,
			updated_at = excluded.updated_at
	`, emailKey(sub.Email), sub.Provider, sub.CustomerID, sub.PriceID, sub.Status, periodEnd, updatedAt(sub).Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (billing.Subscription, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT email, provider, customer_id, price_id, status, current_period_end, updated_at
		FROM subscriptions
		WHERE email = ?
	`, emailKey(email))
	var (
		sub       billing.Subscription
		periodEnd sql.NullString
		updated   string
	)
	if err := row.Scan(&sub.Email, &sub.Provider, &sub.CustomerID, &sub.PriceID, &sub.Status, &periodEnd, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return billing.Subscription{}, false, nil
		}
		return billing.Subscription{}, false, err
	}
	if periodEnd.Valid && periodEnd.String != "" {
		ts, err := time.Parse(time.RFC3339, periodEnd.String)
		if err != nil {
			return billing.Subscription{}, false, fmt.Errorf("parse current_period_end: %w", err)
		}
		sub.CurrentPeriodEnd = &ts
	}
	if ts, err := time.Parse(time.RFC3339, updated); err == nil {
		sub.UpdatedAt = ts
	}
	return sub, true, nil
}

var _ billing.SubscriptionRepository = (*SQLiteRepository)(nil)
