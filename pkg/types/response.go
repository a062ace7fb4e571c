// Package types holds the wire envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads, quote results and menu listings
// alike, under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// Success builds the envelope for a payload.
func Success(data any) SuccessEnvelope {
	return SuccessEnvelope{Data: data}
}

// APIError is the public error body. Details carries structured context such
// as slot violation lists and is omitted for codes that must not leak
// internals.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Failure builds an error envelope for the given code and public message.
func Failure(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message, Details: details}}
}
