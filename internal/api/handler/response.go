package handler

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse is returned with 400 when input fails validation.
// Fields maps each offending field to its messages.
type ValidationResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}
