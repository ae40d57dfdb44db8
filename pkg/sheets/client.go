// Package sheets is a minimal client for the Google Sheets values API,
// covering exactly the operations the submission store needs: read a
// range, append a row, update a sub-range. Values are addressed by A1
// ranges against a single named sheet.
package sheets

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/Neutx/snap-and-win/internal/config"
)

// valueRange mirrors the values-API wire format.
type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values,omitempty"`
}

// Client reads and writes rows of one spreadsheet.
type Client struct {
	http          *resty.Client
	tokens        *tokenSource
	spreadsheetID string
	sheetName     string
	maxRetries    uint64
}

// New builds a Client from the sheet-store configuration.
func New(cfg config.SheetsConfig) (*Client, error) {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second)

	tokens, err := newTokenSource(resty.New().SetTimeout(30*time.Second), cfg.TokenURL, cfg.ClientEmail, cfg.PrivateKeyPEM())
	if err != nil {
		return nil, err
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		http:          httpClient,
		tokens:        tokens,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		maxRetries:    uint64(retries),
	}, nil
}

// Rows returns every row in the given A1 range (e.g. "A:L"), header
// included. Trailing empty cells are absent from the returned rows.
func (c *Client) Rows(ctx context.Context, a1Range string) ([][]string, error) {
	var out valueRange
	err := c.retry(ctx, func() error {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("read rows: %w", err)
		}
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(tok).
			SetResult(&out).
			Get(c.valuesPath(a1Range, ""))
		return c.checkResponse(resp, err, "read rows")
	})
	if err != nil {
		return nil, err
	}
	return out.Values, nil
}

// Append appends one row after the last non-empty row of the range.
func (c *Client) Append(ctx context.Context, a1Range string, row []string) error {
	body := valueRange{Values: [][]string{row}}
	return c.retry(ctx, func() error {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("append row: %w", err)
		}
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(tok).
			SetQueryParams(map[string]string{
				"valueInputOption": "USER_ENTERED",
				"insertDataOption": "INSERT_ROWS",
			}).
			SetBody(body).
			Post(c.valuesPath(a1Range, ":append"))
		return c.checkResponse(resp, err, "append row")
	})
}

// Update overwrites exactly the cells of the given range with one row.
func (c *Client) Update(ctx context.Context, a1Range string, row []string) error {
	body := valueRange{Values: [][]string{row}}
	return c.retry(ctx, func() error {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("update row: %w", err)
		}
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(tok).
			SetQueryParam("valueInputOption", "USER_ENTERED").
			SetBody(body).
			Put(c.valuesPath(a1Range, ""))
		return c.checkResponse(resp, err, "update row")
	})
}

// Ping verifies the store is reachable and the credentials work by
// reading a single cell.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Rows(ctx, "A1:A1")
	return err
}

func (c *Client) valuesPath(a1Range, suffix string) string {
	full := fmt.Sprintf("%s!%s", c.sheetName, a1Range)
	return fmt.Sprintf("/v4/spreadsheets/%s/values/%s%s", c.spreadsheetID, url.PathEscape(full), suffix)
}

// checkResponse folds transport and HTTP-status failures into one error,
// marking client-side (4xx) statuses permanent so they are not retried.
func (c *Client) checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	statusErr := fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode())
	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		return backoff.Permanent(statusErr)
	}
	return statusErr
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	return backoff.Retry(op, policy)
}
