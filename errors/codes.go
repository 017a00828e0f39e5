package errors

// ErrorCode identifies an application error category
type ErrorCode int32

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_HTTP_OK

	// Webhook errors
	ErrorCode_WEBHOOK_INVALID_SIGNATURE
	ErrorCode_WEBHOOK_INVALID_PAYLOAD
	ErrorCode_WEBHOOK_UNKNOWN_EVENT

	// Pipeline errors
	ErrorCode_MEETING_NOT_FOUND
	ErrorCode_TRANSCRIPT_FETCH_FAILED
	ErrorCode_TRANSCRIPT_MALFORMED
	ErrorCode_ANALYSIS_FAILED
	ErrorCode_EXPORT_FAILED
	ErrorCode_CREDENTIAL_EXPIRED

	// Billing errors
	ErrorCode_BALANCE_INSUFFICIENT
	ErrorCode_BALANCE_INELIGIBLE

	// Integration errors
	ErrorCode_INTEGRATION_PROVIDER_FAILED
	ErrorCode_INTEGRATION_SHEETS_FAILED
	ErrorCode_INTEGRATION_STORE_FAILED
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                     "UNKNOWN",
	ErrorCode_INTERNAL:                    "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:            "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                   "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:              "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:           "PERMISSION_DENIED",
	ErrorCode_HTTP_OK:                     "OK",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE:   "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_WEBHOOK_INVALID_PAYLOAD:     "WEBHOOK_INVALID_PAYLOAD",
	ErrorCode_WEBHOOK_UNKNOWN_EVENT:       "WEBHOOK_UNKNOWN_EVENT",
	ErrorCode_MEETING_NOT_FOUND:           "MEETING_NOT_FOUND",
	ErrorCode_TRANSCRIPT_FETCH_FAILED:     "TRANSCRIPT_FETCH_FAILED",
	ErrorCode_TRANSCRIPT_MALFORMED:        "TRANSCRIPT_MALFORMED",
	ErrorCode_ANALYSIS_FAILED:             "ANALYSIS_FAILED",
	ErrorCode_EXPORT_FAILED:               "EXPORT_FAILED",
	ErrorCode_CREDENTIAL_EXPIRED:          "CREDENTIAL_EXPIRED",
	ErrorCode_BALANCE_INSUFFICIENT:        "BALANCE_INSUFFICIENT",
	ErrorCode_BALANCE_INELIGIBLE:          "BALANCE_INELIGIBLE",
	ErrorCode_INTEGRATION_PROVIDER_FAILED: "INTEGRATION_PROVIDER_FAILED",
	ErrorCode_INTEGRATION_SHEETS_FAILED:   "INTEGRATION_SHEETS_FAILED",
	ErrorCode_INTEGRATION_STORE_FAILED:    "INTEGRATION_STORE_FAILED",
}

// String returns the name of the error code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
