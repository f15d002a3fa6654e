package dto

// ErrorResponseDTO is the uniform error body: a snake_case error code.
type ErrorResponseDTO struct {
	Error string `json:"error"`
}
