package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://sheets.googleapis.com"

// Client is a minimal Google Sheets API client. Callers supply a valid
// access token per call; token lifecycle is handled upstream.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Sheets client
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL creates a Sheets client against a custom endpoint,
// used by tests with a fake server
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, accessToken string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sheets API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

// FirstSheetName returns the title of the spreadsheet's first sheet
func (c *Client) FirstSheetName(ctx context.Context, accessToken, spreadsheetID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=sheets.properties.title", c.baseURL, spreadsheetID)

	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &meta); err != nil {
		return "", err
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return meta.Sheets[0].Properties.Title, nil
}

// GetHeaders reads the first row of the sheet as the column header list
func (c *Client) GetHeaders(ctx context.Context, accessToken, spreadsheetID, sheetName string) ([]string, error) {
	rangeRef := url.PathEscape(fmt.Sprintf("%s!1:1", sheetName))
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s", c.baseURL, spreadsheetID, rangeRef)

	var result struct {
		Values [][]string `json:"values"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Values) == 0 {
		return nil, fmt.Errorf("spreadsheet %s sheet %q has no header row", spreadsheetID, sheetName)
	}
	return result.Values[0], nil
}

// AppendRow appends a row past existing data and returns the row number the
// API actually used
func (c *Client) AppendRow(ctx context.Context, accessToken, spreadsheetID, sheetName string, values []string) (int64, error) {
	rangeRef := url.PathEscape(fmt.Sprintf("%s!A1", sheetName))
	endpoint := fmt.Sprintf(
		"%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, spreadsheetID, rangeRef,
	)

	body := map[string]interface{}{
		"values": [][]string{values},
	}
	var result struct {
		Updates struct {
			UpdatedRange string `json:"updatedRange"`
		} `json:"updates"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, body, &result); err != nil {
		return 0, err
	}

	row, err := parseRowFromRange(result.Updates.UpdatedRange)
	if err != nil {
		return 0, fmt.Errorf("failed to parse appended row from range %q: %w", result.Updates.UpdatedRange, err)
	}
	return row, nil
}

// UpdateRow overwrites the cells of an existing row, starting at column A
func (c *Client) UpdateRow(ctx context.Context, accessToken, spreadsheetID, sheetName string, row int64, values []string) error {
	rangeRef := url.PathEscape(fmt.Sprintf("%s!A%d", sheetName, row))
	endpoint := fmt.Sprintf(
		"%s/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		c.baseURL, spreadsheetID, rangeRef,
	)

	body := map[string]interface{}{
		"values": [][]string{values},
	}
	return c.doJSON(ctx, http.MethodPut, endpoint, accessToken, body, nil)
}

// parseRowFromRange extracts the starting row number from an A1-notation
// range like "Sheet1!A5:D5"
func parseRowFromRange(rangeRef string) (int64, error) {
	if idx := strings.Index(rangeRef, "!"); idx >= 0 {
		rangeRef = rangeRef[idx+1:]
	}
	if idx := strings.Index(rangeRef, ":"); idx >= 0 {
		rangeRef = rangeRef[:idx]
	}

	digits := strings.TrimLeftFunc(rangeRef, func(r rune) bool {
		return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r == '\''
	})
	if digits == "" {
		return 0, fmt.Errorf("no row number in %q", rangeRef)
	}
	return strconv.ParseInt(digits, 10, 64)
}
