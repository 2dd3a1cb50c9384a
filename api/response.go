// Package api defines the error payload shared by the portal's JSON
// endpoints.
package api

// Error is the JSON error response body
type Error struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ErrorServerError returns an Error for internal server errors
func ErrorServerError(description string) Error {
	return Error{Error: "server_error", ErrorDescription: description}
}

// ErrorInvalidRequest returns an Error for malformed or conflicting requests
func ErrorInvalidRequest(description string) Error {
	return Error{Error: "invalid_request", ErrorDescription: description}
}

// ErrorNotFound returns an Error for unknown resources
func ErrorNotFound(description string) Error {
	return Error{Error: "not_found", ErrorDescription: description}
}

// ErrorInvalidClient returns an Error for failed authentication
func ErrorInvalidClient(description string) Error {
	return Error{Error: "invalid_client", ErrorDescription: description}
}
