package model

import (
	"fmt"
	"strings"
)

// Status is the review state of a submission.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Terminal reports whether the status can no longer transition.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseStatus normalizes a stored or filter value to a Status.
// Empty and unknown values map to Pending, matching how rows written
// before the status column existed are treated.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	default:
		return StatusPending
	}
}

// Column layout of the Submissions sheet. The order is a wire contract
// shared with the spreadsheet and must not change without a migration.
// Columns A-K match the legacy sheet; column L holds the persisted row
// key written at ingest so rows are never addressed by position.
const (
	colTimestamp = iota
	colFullName
	colPhoneNumber
	colInstagramHandle
	colOrderID
	colScreenshot
	colStatus
	colNotes
	colCouponCode
	colProcessingDate
	colProcessingNotes
	colKey

	// ColumnCount is the full width of one submission row.
	ColumnCount = colKey + 1
)

// RowRange is the A1 range covering all submission columns.
const RowRange = "A:L"

// OrderIDPlaceholder is stored when the submitter leaves orderId empty.
const OrderIDPlaceholder = "Not provided"

// legacyIDPrefix marks submissions read from rows that predate the key
// column. They are listable but cannot be processed until backfilled.
const legacyIDPrefix = "row-"

// Submission is the sole entity of the system: one claimed Instagram post.
type Submission struct {
	ID              string `json:"id"`
	Timestamp       string `json:"timestamp"`
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	InstagramHandle string `json:"instagramHandle"`
	OrderID         string `json:"orderId"`
	Screenshot      string `json:"screenshot"`
	Status          Status `json:"status"`
	Notes           string `json:"notes"`
	CouponCode      string `json:"couponCode"`
	ProcessingDate  string `json:"processingDate"`
	ProcessingNotes string `json:"processingNotes"`

	// RowIndex is the 1-based data row the submission was read from.
	// It is only used to address the write-back range, never as identity.
	RowIndex int `json:"-"`
}

// Legacy reports whether the submission came from a row without a key.
func (s *Submission) Legacy() bool {
	return strings.HasPrefix(s.ID, legacyIDPrefix)
}

// ToRow serializes the submission in sheet column order.
func (s *Submission) ToRow() []string {
	row := make([]string, ColumnCount)
	row[colTimestamp] = s.Timestamp
	row[colFullName] = s.FullName
	row[colPhoneNumber] = s.PhoneNumber
	row[colInstagramHandle] = s.InstagramHandle
	row[colOrderID] = s.OrderID
	row[colScreenshot] = s.Screenshot
	row[colStatus] = string(s.Status)
	row[colNotes] = s.Notes
	row[colCouponCode] = s.CouponCode
	row[colProcessingDate] = s.ProcessingDate
	row[colProcessingNotes] = s.ProcessingNotes
	row[colKey] = s.ID
	return row
}

// ProcessingRow serializes only the review columns (G-K) for write-back.
// Submitter-entered columns are never rewritten.
func (s *Submission) ProcessingRow() []string {
	return []string{
		string(s.Status),
		s.Notes,
		s.CouponCode,
		s.ProcessingDate,
		s.ProcessingNotes,
	}
}

// SubmissionFromRow maps one sheet row to a Submission. Rows may be
// shorter than ColumnCount (trailing empty cells are not returned by the
// store); missing cells read as empty strings and status defaults to
// Pending. rowIndex is the 1-based position among data rows.
func SubmissionFromRow(rowIndex int, row []string) *Submission {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	sub := &Submission{
		Timestamp:       cell(colTimestamp),
		FullName:        cell(colFullName),
		PhoneNumber:     cell(colPhoneNumber),
		InstagramHandle: cell(colInstagramHandle),
		OrderID:         cell(colOrderID),
		Screenshot:      cell(colScreenshot),
		Status:          ParseStatus(cell(colStatus)),
		Notes:           cell(colNotes),
		CouponCode:      cell(colCouponCode),
		ProcessingDate:  cell(colProcessingDate),
		ProcessingNotes: cell(colProcessingNotes),
		ID:              cell(colKey),
		RowIndex:        rowIndex,
	}
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("%s%d", legacyIDPrefix, rowIndex)
	}
	return sub
}

// SubmitRequest is the DTO for POST /api/submit.
type SubmitRequest struct {
	FullName        string `json:"fullName" validate:"required,min=2"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,min=10"`
	InstagramHandle string `json:"instagramHandle" validate:"required,notblank,ighandle"`
	OrderID         string `json:"orderId"`
	Screenshot      string `json:"screenshot" validate:"required,notblank"`
	AcceptTerms     bool   `json:"acceptTerms" validate:"required"`
}

// SubmitResponse is the DTO returned by POST /api/submit.
type SubmitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

// Review actions accepted by the process endpoint.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ProcessRequest is the DTO for POST /api/admin/submissions/process.
type ProcessRequest struct {
	SubmissionID string `json:"submissionId" validate:"required,notblank"`
	Action       string `json:"action" validate:"required,oneof=approve reject"`
	CouponCode   string `json:"couponCode"`
	Reason       string `json:"reason"`
	Notes        string `json:"notes"`
}

// ListFilter narrows the admin submission listing.
type ListFilter struct {
	Search string
	Status string // all | pending | approved | rejected
}

// Stats are the dashboard counters, computed over the filtered-from-store
// full set on every load.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ListResponse is the DTO returned by GET /api/admin/submissions.
type ListResponse struct {
	Success     bool          `json:"success"`
	Submissions []*Submission `json:"submissions"`
	Stats       Stats         `json:"stats"`
}

// LoginRequest is the DTO for POST /api/auth/login.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RedirectTo string `json:"redirectTo"`
}

// LoginResponse is the DTO returned on successful login.
type LoginResponse struct {
	Token      string `json:"token"`
	ExpiresAt  string `json:"expiresAt"`
	RedirectTo string `json:"redirectTo"`
}
