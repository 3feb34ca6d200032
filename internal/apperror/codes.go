package apperror

// Code represents a unique error code for the application.
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Pricing and routing error codes
const (
	// Curve engine contract faults
	CodeInvalidItemCount     Code = "INVALID_ITEM_COUNT"
	CodeUnsupportedCurveType Code = "UNSUPPORTED_CURVE_TYPE"
	CodeNegativeBalance      Code = "NEGATIVE_BALANCE"
	CodeInvalidPoolState     Code = "INVALID_POOL_STATE"

	// Pool data collaborator (subgraph) errors
	CodeSubgraphQueryFailed Code = "SUBGRAPH_QUERY_FAILED"
	CodeSubgraphBadPayload  Code = "SUBGRAPH_BAD_PAYLOAD"

	// Order book collaborator errors
	CodeOrderbookFetchFailed Code = "ORDERBOOK_FETCH_FAILED"
	CodeInvalidListing       Code = "INVALID_LISTING"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)

// messages maps error codes to human-readable messages.
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeInvalidItemCount:     "Item count must be positive",
	CodeUnsupportedCurveType: "Unsupported bonding curve type",
	CodeNegativeBalance:      "Pool balance cannot be negative",
	CodeInvalidPoolState:     "Pool snapshot is malformed",

	CodeSubgraphQueryFailed: "Subgraph query failed",
	CodeSubgraphBadPayload:  "Subgraph returned a malformed payload",

	CodeOrderbookFetchFailed: "Failed to fetch order book data",
	CodeInvalidListing:       "Invalid listing data",

	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",

	CodeCircuitOpen: "Circuit breaker is open",
}
