package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Neutx/snap-and-win/internal/model"
)

// PoolInterface defines the database operations needed by the backlog store.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BacklogRepository spools submissions whose sheet append failed into
// Postgres so operators can replay them. Insert-and-scan only; the
// backlog is drained by hand.
type BacklogRepository struct {
	pool PoolInterface
}

// NewBacklogRepository creates a BacklogRepository with the given pool.
func NewBacklogRepository(pool *pgxpool.Pool) *BacklogRepository {
	return &BacklogRepository{pool: pool}
}

// NewBacklogRepositoryWithPool creates a BacklogRepository with a custom
// pool interface. Primarily used for testing.
func NewBacklogRepositoryWithPool(pool PoolInterface) *BacklogRepository {
	return &BacklogRepository{pool: pool}
}

// Insert stores one submission in the backlog table.
func (r *BacklogRepository) Insert(ctx context.Context, sub *model.Submission) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submission_backlog
		   (key, submitted_at, full_name, phone_number, instagram_handle, order_id, screenshot)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.Timestamp, sub.FullName, sub.PhoneNumber, sub.InstagramHandle, sub.OrderID, sub.Screenshot)
	if err != nil {
		return fmt.Errorf("insert backlog submission: %w", err)
	}
	return nil
}

// Pending lists backlog submissions awaiting replay, oldest first.
func (r *BacklogRepository) Pending(ctx context.Context) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, submitted_at, full_name, phone_number, instagram_handle, order_id, screenshot
		   FROM submission_backlog
		  WHERE replayed_at IS NULL
		  ORDER BY submitted_at`)
	if err != nil {
		return nil, fmt.Errorf("list backlog submissions: %w", err)
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		sub := &model.Submission{Status: model.StatusPending}
		err := rows.Scan(&sub.ID, &sub.Timestamp, &sub.FullName, &sub.PhoneNumber,
			&sub.InstagramHandle, &sub.OrderID, &sub.Screenshot)
		if err != nil {
			return nil, fmt.Errorf("scan backlog submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backlog submissions: %w", err)
	}
	return subs, nil
}
