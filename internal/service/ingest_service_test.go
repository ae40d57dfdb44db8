package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neutx/snap-and-win/internal/model"
)

// mockAppender is a mock implementation of SubmissionAppender.
type mockAppender struct {
	appendFn func(ctx context.Context, sub *model.Submission) error
	appended []*model.Submission
}

func (m *mockAppender) Append(ctx context.Context, sub *model.Submission) error {
	m.appended = append(m.appended, sub)
	if m.appendFn != nil {
		return m.appendFn(ctx, sub)
	}
	return nil
}

// mockBacklog is a mock implementation of BacklogWriter.
type mockBacklog struct {
	insertFn func(ctx context.Context, sub *model.Submission) error
	inserted []*model.Submission
}

func (m *mockBacklog) Insert(ctx context.Context, sub *model.Submission) error {
	m.inserted = append(m.inserted, sub)
	if m.insertFn != nil {
		return m.insertFn(ctx, sub)
	}
	return nil
}

func validSubmit() *model.SubmitRequest {
	return &model.SubmitRequest{
		FullName:        "Asha Rao",
		PhoneNumber:     "9876543210",
		InstagramHandle: "@asha.rao",
		Screenshot:      "https://cdn/x.jpg",
		AcceptTerms:     true,
	}
}

func TestSubmit_Success(t *testing.T) {
	repo := &mockAppender{}
	svc := NewIngestService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	svc.newKey = func() string { return "key-1" }

	resp, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Submission received", resp.Message)
	assert.Len(t, resp.SubmissionID, 8, "confirmation token is a short random id")

	require.Len(t, repo.appended, 1)
	sub := repo.appended[0]
	assert.Equal(t, "key-1", sub.ID)
	assert.Equal(t, "2024-05-01T10:00:00Z", sub.Timestamp)
	assert.Equal(t, model.StatusPending, sub.Status)
	assert.Equal(t, model.OrderIDPlaceholder, sub.OrderID, "absent orderId stored as placeholder")
	assert.Empty(t, sub.CouponCode)
	assert.Empty(t, sub.ProcessingDate)
}

func TestSubmit_OrderIDKept(t *testing.T) {
	repo := &mockAppender{}
	svc := NewIngestService(repo, nil)

	req := validSubmit()
	req.OrderID = "ORD-42"
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, repo.appended, 1)
	assert.Equal(t, "ORD-42", repo.appended[0].OrderID)
}

func TestSubmit_StoreFailureMaskedAsSuccess(t *testing.T) {
	repo := &mockAppender{
		appendFn: func(ctx context.Context, sub *model.Submission) error {
			return errors.New("sheet unavailable")
		},
	}
	backlog := &mockBacklog{}
	svc := NewIngestService(repo, backlog)

	resp, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err, "storage failure must not surface to the submitter")

	assert.True(t, resp.Success)
	assert.Equal(t, "Submission received, but there was an issue with data storage", resp.Message)
	assert.NotEmpty(t, resp.SubmissionID)

	require.Len(t, backlog.inserted, 1, "failed append is spooled to the backlog")
	assert.Equal(t, "Asha Rao", backlog.inserted[0].FullName)
}

func TestSubmit_StoreFailureWithoutBacklog(t *testing.T) {
	repo := &mockAppender{
		appendFn: func(ctx context.Context, sub *model.Submission) error {
			return errors.New("sheet unavailable")
		},
	}
	svc := NewIngestService(repo, nil)

	resp, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	assert.True(t, resp.Success, "no backlog configured still masks the failure")
}

func TestSubmit_BacklogFailureStillSuccess(t *testing.T) {
	repo := &mockAppender{
		appendFn: func(ctx context.Context, sub *model.Submission) error {
			return errors.New("sheet unavailable")
		},
	}
	backlog := &mockBacklog{
		insertFn: func(ctx context.Context, sub *model.Submission) error {
			return errors.New("db down too")
		},
	}
	svc := NewIngestService(repo, backlog)

	resp, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestSubmit_NilRequest(t *testing.T) {
	svc := NewIngestService(&mockAppender{}, nil)

	_, err := svc.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
