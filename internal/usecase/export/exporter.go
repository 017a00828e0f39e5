package export

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/callscribe-team/callscribe/errors"
	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// SheetClient is the slice of the Sheets API the exporter needs.
// infrastructure/external/sheets.Client satisfies this.
type SheetClient interface {
	FirstSheetName(ctx context.Context, accessToken, spreadsheetID string) (string, error)
	GetHeaders(ctx context.Context, accessToken, spreadsheetID, sheetName string) ([]string, error)
	AppendRow(ctx context.Context, accessToken, spreadsheetID, sheetName string, values []string) (int64, error)
	UpdateRow(ctx context.Context, accessToken, spreadsheetID, sheetName string, row int64, values []string) error
}

// Service writes extracted meeting fields into the user's spreadsheet
type Service struct {
	sheets SheetClient
	logger *zap.Logger
}

// NewService constructs an exporter over the given Sheets client
func NewService(sheets SheetClient, logger *zap.Logger) *Service {
	return &Service{
		sheets: sheets,
		logger: logger,
	}
}

// BuildRow produces one cell per header, in header order. Fields without a
// value become empty cells; field keys outside the header list are ignored.
// Column alignment depends on this and nothing else.
func BuildRow(headers []string, fields map[string]string) []string {
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = fields[h]
	}
	return row
}

// Export writes the meeting's extracted fields to its spreadsheet and
// returns the sheet name and row number used. A meeting that already has a
// row is updated in place; otherwise a new row is appended. The meeting
// entity is not mutated; the caller persists the returned placement.
func (s *Service) Export(ctx context.Context, accessToken string, meeting *entities.Meeting) (string, int64, error) {
	sheetName := ""
	if meeting.SheetName != nil {
		sheetName = *meeting.SheetName
	}
	if sheetName == "" {
		name, err := s.sheets.FirstSheetName(ctx, accessToken, meeting.SpreadsheetID)
		if err != nil {
			return "", 0, apperrors.ErrSheetsFailed("resolve sheet name", err)
		}
		sheetName = name
	}

	headers := meeting.Headers
	if len(headers) == 0 {
		fetched, err := s.sheets.GetHeaders(ctx, accessToken, meeting.SpreadsheetID, sheetName)
		if err != nil {
			return "", 0, apperrors.ErrSheetsFailed("read headers", err)
		}
		headers = fetched
	}

	row := BuildRow(headers, meeting.ExtractedFields)

	if meeting.SpreadsheetRowNumber != nil && *meeting.SpreadsheetRowNumber > 0 {
		rowNum := *meeting.SpreadsheetRowNumber
		if err := s.sheets.UpdateRow(ctx, accessToken, meeting.SpreadsheetID, sheetName, rowNum, row); err != nil {
			return "", 0, apperrors.ErrExportFailed(meeting.SpreadsheetID, err)
		}
		if s.logger != nil {
			s.logger.Info("✅ Updated spreadsheet row",
				zap.String("spreadsheet_id", meeting.SpreadsheetID),
				zap.String("sheet", sheetName),
				zap.Int64("row", rowNum),
			)
		}
		return sheetName, rowNum, nil
	}

	rowNum, err := s.sheets.AppendRow(ctx, accessToken, meeting.SpreadsheetID, sheetName, row)
	if err != nil {
		return "", 0, apperrors.ErrExportFailed(meeting.SpreadsheetID, err)
	}
	if s.logger != nil {
		s.logger.Info("✅ Appended spreadsheet row",
			zap.String("spreadsheet_id", meeting.SpreadsheetID),
			zap.String("sheet", sheetName),
			zap.Int64("row", rowNum),
		)
	}
	return sheetName, rowNum, nil
}
