package export

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

type fakeSheets struct {
	firstSheet    string
	firstSheetErr error
	headers       []string

	appendedSheet  string
	appendedValues []string
	appendRow      int64
	appendErr      error

	updatedRow    int64
	updatedValues []string
}

func (f *fakeSheets) FirstSheetName(ctx context.Context, accessToken, spreadsheetID string) (string, error) {
	if f.firstSheetErr != nil {
		return "", f.firstSheetErr
	}
	return f.firstSheet, nil
}

func (f *fakeSheets) GetHeaders(ctx context.Context, accessToken, spreadsheetID, sheetName string) ([]string, error) {
	return f.headers, nil
}

func (f *fakeSheets) AppendRow(ctx context.Context, accessToken, spreadsheetID, sheetName string, values []string) (int64, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.appendedSheet = sheetName
	f.appendedValues = values
	return f.appendRow, nil
}

func (f *fakeSheets) UpdateRow(ctx context.Context, accessToken, spreadsheetID, sheetName string, row int64, values []string) error {
	f.updatedRow = row
	f.updatedValues = values
	return nil
}

func TestBuildRowAlignsToHeaders(t *testing.T) {
	headers := []string{"Client", "Budget", "Next Call"}
	fields := map[string]string{
		"Budget":  "50k",
		"Client":  "Acme",
		"Ignored": "noise",
	}

	row := BuildRow(headers, fields)

	assert.Equal(t, []string{"Acme", "50k", ""}, row)
}

func TestBuildRowEmptyFields(t *testing.T) {
	row := BuildRow([]string{"A", "B"}, nil)
	assert.Equal(t, []string{"", ""}, row)
}

func TestExportAppendsWhenNoRowKnown(t *testing.T) {
	fake := &fakeSheets{firstSheet: "Leads", appendRow: 7}
	svc := NewService(fake, nil)

	meeting := entities.NewMeeting(uuid.New(), "bot-1", "sheet-abc", []string{"Client", "Budget"})
	meeting.ExtractedFields = map[string]string{"Client": "Acme", "Budget": "50k"}

	sheetName, row, err := svc.Export(context.Background(), "token", meeting)
	require.NoError(t, err)

	assert.Equal(t, "Leads", sheetName)
	assert.Equal(t, int64(7), row)
	assert.Equal(t, "Leads", fake.appendedSheet)
	assert.Equal(t, []string{"Acme", "50k"}, fake.appendedValues)
	assert.Zero(t, fake.updatedRow)
}

func TestExportUpdatesKnownRowInPlace(t *testing.T) {
	fake := &fakeSheets{firstSheet: "Leads"}
	svc := NewService(fake, nil)

	meeting := entities.NewMeeting(uuid.New(), "bot-1", "sheet-abc", []string{"Client"})
	meeting.ExtractedFields = map[string]string{"Client": "Acme v2"}
	existingSheet := "Leads"
	existingRow := int64(5)
	meeting.SheetName = &existingSheet
	meeting.SpreadsheetRowNumber = &existingRow

	sheetName, row, err := svc.Export(context.Background(), "token", meeting)
	require.NoError(t, err)

	assert.Equal(t, "Leads", sheetName)
	assert.Equal(t, int64(5), row)
	assert.Equal(t, int64(5), fake.updatedRow)
	assert.Equal(t, []string{"Acme v2"}, fake.updatedValues)
	assert.Empty(t, fake.appendedValues)
}

func TestExportFetchesHeadersWhenMeetingHasNone(t *testing.T) {
	fake := &fakeSheets{firstSheet: "Sheet1", headers: []string{"Topic"}, appendRow: 2}
	svc := NewService(fake, nil)

	meeting := entities.NewMeeting(uuid.New(), "bot-1", "sheet-abc", nil)
	meeting.ExtractedFields = map[string]string{"Topic": "roadmap"}

	_, _, err := svc.Export(context.Background(), "token", meeting)
	require.NoError(t, err)
	assert.Equal(t, []string{"roadmap"}, fake.appendedValues)
}

func TestExportSurfacesSheetErrors(t *testing.T) {
	fake := &fakeSheets{firstSheetErr: fmt.Errorf("boom")}
	svc := NewService(fake, nil)

	meeting := entities.NewMeeting(uuid.New(), "bot-1", "sheet-abc", []string{"Client"})

	_, _, err := svc.Export(context.Background(), "token", meeting)
	assert.Error(t, err)
}
