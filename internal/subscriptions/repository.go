// Package subscriptions manages newsletter opt-ins and the admin broadcast
// that enrolls them into the nurture sequence.
package subscriptions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/platform/apperr"
)

// Subscription is one opt-in record. Scheduled flips to true exactly once,
// when an admin broadcast enrolls the subscriber.
type Subscription struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Name      *string   `db:"name"`
	Language  string    `db:"language"`
	Source    *string   `db:"source"`
	Scheduled bool      `db:"scheduled"`
	CreatedAt string    `db:"created_at"`
}

// Repository defines subscription store operations.
type Repository interface {
	Upsert(ctx context.Context, email string, name *string, language string, source *string) (Subscription, error)
	ListUnscheduled(ctx context.Context) ([]Subscription, error)
	MarkScheduled(ctx context.Context, id uuid.UUID) error
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a subscription repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const subscriptionColumns = `id, email, name, language, source, scheduled, created_at::text`

// Upsert inserts a subscription or refreshes the name and source of an
// existing one. Re-subscribing never resets the scheduled flag.
func (r *Repo) Upsert(ctx context.Context, email string, name *string, language string, source *string) (Subscription, error) {
	query := `
		INSERT INTO subscriptions (id, email, name, language, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, subscriptions.name),
			source = COALESCE(EXCLUDED.source, subscriptions.source)
		RETURNING ` + subscriptionColumns

	row := r.pool.QueryRow(ctx, query, uuid.New(), email, name, language, source)
	return scanSubscription(row)
}

// ListUnscheduled returns every subscription not yet enrolled by a broadcast.
func (r *Repo) ListUnscheduled(ctx context.Context) ([]Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE scheduled = false ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list subscriptions", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// MarkScheduled flips the scheduled flag; missing rows are a NotFound.
func (r *Repo) MarkScheduled(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE subscriptions SET scheduled = true WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark subscription scheduled", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("subscription not found")
	}
	return nil
}

func scanSubscription(row pgx.Row) (Subscription, error) {
	var sub Subscription
	err := row.Scan(&sub.ID, &sub.Email, &sub.Name, &sub.Language, &sub.Source, &sub.Scheduled, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subscription{}, apperr.NotFound("subscription not found")
		}
		return Subscription{}, apperr.Wrap(apperr.KindInternal, "failed to scan subscription", err)
	}
	return sub, nil
}
