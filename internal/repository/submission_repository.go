package repository

import (
	"context"
	"fmt"

	"github.com/Neutx/snap-and-win/internal/model"
	"github.com/Neutx/snap-and-win/internal/service"
)

// RowStore defines the sheet operations needed by the repository.
// Implemented by *sheets.Client; tests supply an in-memory fake.
type RowStore interface {
	Rows(ctx context.Context, a1Range string) ([][]string, error)
	Append(ctx context.Context, a1Range string, row []string) error
	Update(ctx context.Context, a1Range string, row []string) error
}

// SubmissionRepository maps sheet rows to submissions. The first sheet
// row is a header and is skipped; data rows are numbered from 1.
type SubmissionRepository struct {
	store RowStore
}

// NewSubmissionRepository creates a SubmissionRepository backed by the given store.
func NewSubmissionRepository(store RowStore) *SubmissionRepository {
	return &SubmissionRepository{store: store}
}

// ListAll reads every submission from the store in append order.
func (r *SubmissionRepository) ListAll(ctx context.Context) ([]*model.Submission, error) {
	rows, err := r.store.Rows(ctx, model.RowRange)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if len(rows) <= 1 {
		return []*model.Submission{}, nil
	}

	subs := make([]*model.Submission, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header row
		subs = append(subs, model.SubmissionFromRow(i+1, row))
	}
	return subs, nil
}

// GetByID returns the submission whose key column matches id.
// Returns service.ErrSubmissionNotFound when no row carries the key;
// legacy rows without a key are never matched.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	subs, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if !sub.Legacy() && sub.ID == id {
			return sub, nil
		}
	}
	return nil, service.ErrSubmissionNotFound
}

// Append stores a new submission as one full-width row.
func (r *SubmissionRepository) Append(ctx context.Context, sub *model.Submission) error {
	if err := r.store.Append(ctx, model.RowRange, sub.ToRow()); err != nil {
		return fmt.Errorf("append submission: %w", err)
	}
	return nil
}

// UpdateProcessing overwrites only the review columns (status, notes,
// coupon code, processing date, processing notes) of the submission's
// row. Submitter-entered columns are left untouched.
func (r *SubmissionRepository) UpdateProcessing(ctx context.Context, sub *model.Submission) error {
	if sub.RowIndex < 1 {
		return service.ErrSubmissionNotFound
	}
	// Data row N lives at sheet row N+1 (header offset). Review columns are G-K.
	sheetRow := sub.RowIndex + 1
	a1Range := fmt.Sprintf("G%d:K%d", sheetRow, sheetRow)
	if err := r.store.Update(ctx, a1Range, sub.ProcessingRow()); err != nil {
		return fmt.Errorf("update submission %s: %w", sub.ID, err)
	}
	return nil
}
