package constants

// Error codes carried by provider and form errors.
const (
	ErrCodeNetworkError     = "NETWORK_ERROR"
	ErrCodeResourceNotFound = "RESOURCE_NOT_FOUND"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUpstreamError    = "UPSTREAM_ERROR"
	ErrCodeDecodeFailed     = "DECODE_FAILED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeMissingID        = "MISSING_ID"
	ErrCodeUnknownKind      = "UNKNOWN_KIND"
	ErrCodeReloadFailed     = "RELOAD_FAILED"
)

var ErrorMessages = map[string]string{
	ErrCodeNetworkError:     "Unable to reach the flight operations service",
	ErrCodeResourceNotFound: "The requested record was not found",
	ErrCodeBadRequest:       "The flight operations service rejected the request",
	ErrCodeUnauthorized:     "The flight operations service refused the credentials",
	ErrCodeRateLimited:      "Rate limit exceeded. Please try again later",
	ErrCodeUpstreamError:    "The flight operations service returned an error",
	ErrCodeDecodeFailed:     "The flight operations service returned an unreadable response",
	ErrCodeValidationFailed: "Some fields are missing or invalid",
	ErrCodeMissingID:        "An id is required for this operation",
	ErrCodeUnknownKind:      "Unknown entity kind",
	ErrCodeReloadFailed:     "Saved, but refreshing the data failed",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}

// User-visible notifications.
const (
	MsgLoadFailed       = "Error loading data"
	MsgGatesLoadFailed  = "Error loading gates"
	MsgFlightAdded      = "Flight added successfully"
	MsgFlightAddFailed  = "Failed to add flight"
	MsgFlightUpdated    = "Flight updated successfully"
	MsgFlightUpdFailed  = "Failed to update flight"
	MsgFlightDeleted    = "Flight deleted successfully"
	MsgFlightDelFailed  = "Failed to delete flight"
	MsgAirlineAdded     = "Airline added successfully"
	MsgAirlineAddFailed = "Failed to add airline"
	MsgAirlineDeleted   = "Airline deleted successfully"
	MsgAirlineDelFailed = "Failed to delete airline"
	MsgGateAdded        = "Gate added successfully"
	MsgGateAddFailed    = "Failed to add gate"
	MsgGateDeleted      = "Gate deleted successfully"
	MsgGateDelFailed    = "Failed to delete gate"
)
