package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeSheetsServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewClientWithBaseURL(server.URL)
}

func TestFirstSheetName(t *testing.T) {
	_, client := newFakeSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sheets": []map[string]interface{}{
				{"properties": map[string]string{"title": "Leads"}},
				{"properties": map[string]string{"title": "Archive"}},
			},
		})
	})

	name, err := client.FirstSheetName(context.Background(), "token-1", "sheet-abc")
	require.NoError(t, err)
	assert.Equal(t, "Leads", name)
}

func TestGetHeadersReadsFirstRow(t *testing.T) {
	_, client := newFakeSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"values": [][]string{{"Client", "Budget"}},
		})
	})

	headers, err := client.GetHeaders(context.Background(), "token-1", "sheet-abc", "Leads")
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Budget"}, headers)
}

func TestGetHeadersEmptySheet(t *testing.T) {
	_, client := newFakeSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	})

	_, err := client.GetHeaders(context.Background(), "token-1", "sheet-abc", "Leads")
	assert.Error(t, err)
}

func TestAppendRowReturnsRowFromUpdatedRange(t *testing.T) {
	_, client := newFakeSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Values [][]string `json:"values"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]string{{"Acme", "50k"}}, body.Values)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"updates": map[string]string{"updatedRange": "Leads!A7:B7"},
		})
	})

	row, err := client.AppendRow(context.Background(), "token-1", "sheet-abc", "Leads", []string{"Acme", "50k"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), row)
}

func TestAppendRowSurfacesAPIErrors(t *testing.T) {
	_, client := newFakeSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.AppendRow(context.Background(), "token-1", "sheet-abc", "Leads", []string{"x"})
	assert.Error(t, err)
}

func TestUpdateRowTargetsGivenRow(t *testing.T) {
	var gotPath string
	_, client := newFakeSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	})

	err := client.UpdateRow(context.Background(), "token-1", "sheet-abc", "Leads", 5, []string{"Acme v2"})
	require.NoError(t, err)
	assert.Contains(t, gotPath, "Leads!A5")
}

func TestParseRowFromRange(t *testing.T) {
	tests := []struct {
		rangeRef string
		want     int64
		wantErr  bool
	}{
		{"Leads!A7:B7", 7, false},
		{"'My Sheet'!C12:F12", 12, false},
		{"A3", 3, false},
		{"Leads!AB", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		row, err := parseRowFromRange(tt.rangeRef)
		if tt.wantErr {
			assert.Error(t, err, tt.rangeRef)
			continue
		}
		require.NoError(t, err, tt.rangeRef)
		assert.Equal(t, tt.want, row, tt.rangeRef)
	}
}
