package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/model"
)

// SubmissionAppender defines the row-store write needed by ingest.
type SubmissionAppender interface {
	Append(ctx context.Context, sub *model.Submission) error
}

// BacklogWriter spools submissions that could not reach the row store.
type BacklogWriter interface {
	Insert(ctx context.Context, sub *model.Submission) error
}

// IngestService turns a validated submission into a persisted Pending row.
type IngestService struct {
	repo    SubmissionAppender
	backlog BacklogWriter // nil when no fallback store is configured
	now     func() time.Time
	newKey  func() string
}

// NewIngestService creates an IngestService. backlog may be nil.
func NewIngestService(repo SubmissionAppender, backlog BacklogWriter) *IngestService {
	return &IngestService{
		repo:    repo,
		backlog: backlog,
		now:     time.Now,
		newKey:  func() string { return uuid.NewString() },
	}
}

// Submit persists the submission and returns the user-facing confirmation.
//
// A row-store failure is masked: the submitter still gets a success
// response so a transient storage outage never blocks them. The failure
// is logged and, when a fallback store is configured, the submission is
// spooled there for replay.
func (s *IngestService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		orderID = model.OrderIDPlaceholder
	}

	sub := &model.Submission{
		ID:              s.newKey(),
		Timestamp:       s.now().UTC().Format(time.RFC3339),
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		InstagramHandle: strings.TrimSpace(req.InstagramHandle),
		OrderID:         orderID,
		Screenshot:      req.Screenshot,
		Status:          model.StatusPending,
	}

	resp := &model.SubmitResponse{
		Success:      true,
		Message:      "Submission received",
		SubmissionID: confirmationToken(),
	}

	if err := s.repo.Append(ctx, sub); err != nil {
		log.Error().
			Err(err).
			Str("submission_key", sub.ID).
			Str("instagram_handle", sub.InstagramHandle).
			Msg("row store append failed, masking as success")
		resp.Message = "Submission received, but there was an issue with data storage"
		s.spool(ctx, sub)
	}

	return resp, nil
}

// spool writes the submission to the fallback store, if one exists.
func (s *IngestService) spool(ctx context.Context, sub *model.Submission) {
	if s.backlog == nil {
		return
	}
	if err := s.backlog.Insert(ctx, sub); err != nil {
		log.Error().
			Err(err).
			Str("submission_key", sub.ID).
			Msg("backlog insert failed, submission recorded in logs only")
		return
	}
	log.Info().Str("submission_key", sub.ID).Msg("submission spooled to backlog store")
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// confirmationToken builds the short random id shown to the submitter.
// It is purely cosmetic; the persisted row key is the uuid in column L.
func confirmationToken() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tokenAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			return uuid.NewString()[:8]
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return b.String()
}
