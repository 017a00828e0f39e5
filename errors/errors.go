package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped error to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Webhook Errors

func ErrInvalidSignature() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_WEBHOOK_INVALID_SIGNATURE,
		Message:  "Webhook signature verification failed",
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_WEBHOOK_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrUnknownEvent(event string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_WEBHOOK_UNKNOWN_EVENT,
		Message:  "Unknown lifecycle event",
	}.WithDetail("event", event)
}

// Pipeline Errors

func ErrMeetingNotFound(botID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MEETING_NOT_FOUND,
		Message:  "Meeting not found for bot",
	}.WithDetail("bot_id", botID)
}

func ErrTranscriptFetchFailed(botID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPT_FETCH_FAILED,
		Message:  "Failed to retrieve transcript from provider",
	}.WithDetail("bot_id", botID)
}

func ErrTranscriptMalformed(reason string) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_TRANSCRIPT_MALFORMED,
		Message:  fmt.Sprintf("Transcript is malformed: %s", reason),
	}
}

func ErrAnalysisFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ANALYSIS_FAILED,
		Message:  "AI analysis failed",
	}
}

func ErrExportFailed(spreadsheetID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_EXPORT_FAILED,
		Message:  "Failed to export results to spreadsheet",
	}.WithDetail("spreadsheet_id", spreadsheetID)
}

func ErrCredentialExpired(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_CREDENTIAL_EXPIRED,
		Message:  "Spreadsheet credential expired and could not be refreshed",
	}.WithDetail("user_id", userID)
}

// Billing Errors

func ErrInsufficientBalance(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusPaymentRequired,
		Code:     ErrorCode_BALANCE_INSUFFICIENT,
		Message:  "Insufficient processing balance",
	}.WithDetail("user_id", userID)
}

func ErrIneligibleAccount(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_BALANCE_INELIGIBLE,
		Message:  "Account is not eligible for processing",
	}.WithDetail("user_id", userID)
}

// Integration Errors

func ErrProviderFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_PROVIDER_FAILED,
		Message:  fmt.Sprintf("Recording provider call failed: %s", operation),
	}
}

func ErrSheetsFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_SHEETS_FAILED,
		Message:  fmt.Sprintf("Sheets API call failed: %s", operation),
	}
}

func ErrStoreFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORE_FAILED,
		Message:  fmt.Sprintf("Lock store operation failed: %s", operation),
	}
}

// HTTPStatusOK represents a successful HTTP response.
func HTTPStatusOK(message string) AppError {
	return AppError{
		HTTPCode: http.StatusOK,
		Code:     ErrorCode_HTTP_OK,
		Message:  message,
	}
}
