package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRow_ColumnOrder(t *testing.T) {
	sub := &Submission{
		ID:              "8f5a6f3e-1111-2222-3333-444455556666",
		Timestamp:       "2024-05-01T10:00:00Z",
		FullName:        "Asha Rao",
		PhoneNumber:     "9876543210",
		InstagramHandle: "@asha.rao",
		OrderID:         "ORD-42",
		Screenshot:      "https://cdn/x.jpg",
		Status:          StatusPending,
	}

	row := sub.ToRow()
	require.Len(t, row, ColumnCount)

	// The column order is a wire contract shared with the sheet.
	assert.Equal(t, []string{
		"2024-05-01T10:00:00Z",
		"Asha Rao",
		"9876543210",
		"@asha.rao",
		"ORD-42",
		"https://cdn/x.jpg",
		"Pending",
		"", // notes
		"", // coupon code
		"", // processing date
		"", // processing notes
		"8f5a6f3e-1111-2222-3333-444455556666",
	}, row)
}

func TestProcessingRow_ReviewColumnsOnly(t *testing.T) {
	sub := &Submission{
		FullName:        "Asha Rao",
		Status:          StatusApproved,
		Notes:           "n",
		CouponCode:      "SAVE200",
		ProcessingDate:  "2024-05-02T09:00:00Z",
		ProcessingNotes: "looks good",
	}

	assert.Equal(t, []string{"Approved", "n", "SAVE200", "2024-05-02T09:00:00Z", "looks good"}, sub.ProcessingRow())
}

func TestSubmissionFromRow_FullRow(t *testing.T) {
	row := []string{
		"2024-05-01T10:00:00Z", "Asha Rao", "9876543210", "@asha.rao",
		"Not provided", "https://cdn/x.jpg", "Approved", "note",
		"WELCOME200", "2024-05-02T09:00:00Z", "ok", "key-1",
	}

	sub := SubmissionFromRow(3, row)
	assert.Equal(t, "key-1", sub.ID)
	assert.Equal(t, 3, sub.RowIndex)
	assert.Equal(t, "Asha Rao", sub.FullName)
	assert.Equal(t, StatusApproved, sub.Status)
	assert.Equal(t, "WELCOME200", sub.CouponCode)
	assert.False(t, sub.Legacy())
}

func TestSubmissionFromRow_MissingTrailingColumns(t *testing.T) {
	// The store drops trailing empty cells; rows written before the
	// review happened may only carry the submitter columns.
	row := []string{"2024-05-01T10:00:00Z", "Asha Rao", "9876543210", "@asha.rao"}

	sub := SubmissionFromRow(1, row)
	assert.Equal(t, StatusPending, sub.Status, "missing status column defaults to Pending")
	assert.Empty(t, sub.Screenshot)
	assert.Empty(t, sub.CouponCode)
	assert.True(t, sub.Legacy(), "row without a key column is legacy")
	assert.Equal(t, "row-1", sub.ID)
}

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		input string
		want  Status
	}{
		{"Pending", StatusPending},
		{"approved", StatusApproved},
		{"REJECTED", StatusRejected},
		{" Approved ", StatusApproved},
		{"", StatusPending},
		{"garbage", StatusPending},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, ParseStatus(tc.input), "input %q", tc.input)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
