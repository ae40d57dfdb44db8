package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/model"
)

// SubmissionStore defines the row-store operations needed by review.
type SubmissionStore interface {
	ListAll(ctx context.Context) ([]*model.Submission, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	UpdateProcessing(ctx context.Context, sub *model.Submission) error
}

// ReviewService lists submissions and applies status transitions.
type ReviewService struct {
	repo         SubmissionStore
	couponPrefix string
	now          func() time.Time
}

// NewReviewService creates a ReviewService. couponPrefix seeds
// auto-generated coupon codes when staff approve without supplying one.
func NewReviewService(repo SubmissionStore, couponPrefix string) *ReviewService {
	return &ReviewService{
		repo:         repo,
		couponPrefix: couponPrefix,
		now:          time.Now,
	}
}

// List returns submissions matching the filter plus dashboard counters.
// Counters are computed over the full set, not the filtered one, so the
// dashboard totals stay stable while staff narrow the table.
func (s *ReviewService) List(ctx context.Context, filter model.ListFilter) ([]*model.Submission, model.Stats, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, model.Stats{}, fmt.Errorf("list: %w", err)
	}

	var stats model.Stats
	matched := make([]*model.Submission, 0, len(subs))
	for _, sub := range subs {
		stats.Total++
		switch sub.Status {
		case model.StatusApproved:
			stats.Approved++
		case model.StatusRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
		if matchesFilter(sub, filter) {
			matched = append(matched, sub)
		}
	}
	return matched, stats, nil
}

// matchesFilter applies the status filter (exact) and the search term
// (case-insensitive substring over the searchable fields).
func matchesFilter(sub *model.Submission, filter model.ListFilter) bool {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status != "" && status != "all" && sub.Status != model.ParseStatus(status) {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{sub.FullName, sub.PhoneNumber, sub.InstagramHandle, sub.OrderID} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Process applies an approve or reject transition to a Pending submission.
//
// The submission is re-read immediately before the write and the
// transition is refused unless its status is still Pending. The store
// itself would happily overwrite a terminal row, so this guard is the
// only thing standing between two operators and a double-processed
// submission.
//
// Returns:
//   - ErrReasonRequired for a rejection without a reason (checked before any read or write)
//   - ErrSubmissionNotFound when no row carries the key
//   - ErrAlreadyProcessed when the submission is no longer Pending
//   - ErrStoreUnavailable when the write-back fails
func (s *ReviewService) Process(ctx context.Context, req *model.ProcessRequest) (*model.Submission, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != model.ActionApprove && action != model.ActionReject {
		return nil, ErrInvalidAction
	}
	if action == model.ActionReject && strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	// Fresh read right before the write: both the status guard and the
	// row position must reflect the sheet as it is now, not as it was
	// when the dashboard loaded.
	sub, err := s.repo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	processedAt := s.now().UTC().Format(time.RFC3339)
	switch action {
	case model.ActionApprove:
		code := strings.TrimSpace(req.CouponCode)
		if code == "" {
			code = s.generateCouponCode()
		}
		sub.Status = model.StatusApproved
		sub.CouponCode = code
		sub.ProcessingDate = processedAt
		sub.ProcessingNotes = strings.TrimSpace(req.Notes)
	case model.ActionReject:
		notes := strings.TrimSpace(req.Reason)
		if extra := strings.TrimSpace(req.Notes); extra != "" {
			notes = notes + "; " + extra
		}
		sub.Status = model.StatusRejected
		sub.CouponCode = ""
		sub.ProcessingDate = processedAt
		sub.ProcessingNotes = notes
	}

	if err := s.repo.UpdateProcessing(ctx, sub); err != nil {
		log.Error().
			Err(err).
			Str("submission_id", sub.ID).
			Str("action", action).
			Msg("failed to write status transition")
		return nil, ErrStoreUnavailable
	}

	log.Info().
		Str("submission_id", sub.ID).
		Str("action", action).
		Str("status", string(sub.Status)).
		Msg("submission processed")

	return sub, nil
}

const couponAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateCouponCode builds a staff-visible code like "WIN-7K2M9Q" when
// the approval request does not carry one.
func (s *ReviewService) generateCouponCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(couponAlphabet))))
		if err != nil {
			n = big.NewInt(int64(i))
		}
		b.WriteByte(couponAlphabet[n.Int64()])
	}
	return s.couponPrefix + "-" + b.String()
}
