// Package types defines the JSON envelopes shared by every endpoint.
package types

// SuccessEnvelope wraps every 2xx payload under "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Details is populated only for
// codes whose metadata allows exposing it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx payload under "error".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
