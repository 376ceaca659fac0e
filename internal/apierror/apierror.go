// Package apierror provides the standardized error envelopes for the API.
// All 4xx/5xx responses go through this package so internal details
// (stack traces, DB errors) never leak to clients.
package apierror

// APIError is the canonical error envelope.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps per-field binding/validation failures.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// ShortfallError carries the structured insufficiency report produced when
// a sale cannot be covered by current stock. It lists every lacking
// ingredient so the client can show all of them at once.
type ShortfallError struct {
	Detail     string      `json:"detail"`
	Shortfalls interface{} `json:"shortfalls"`
}

func NewShortfall(shortfalls interface{}) *ShortfallError {
	return &ShortfallError{Detail: "insufficient stock", Shortfalls: shortfalls}
}
