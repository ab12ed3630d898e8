package dto

// ErrorResponse is the uniform error envelope every handler boundary returns.
// Success is always false; Message never carries provider error bodies or
// other internals.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// NewErrorResponse builds the error envelope for the given status and message.
func NewErrorResponse(statusCode int, message string) ErrorResponse {
	return ErrorResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	}
}
