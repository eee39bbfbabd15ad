package dto

// TaskFields holds the type-checked task fields of a create or update
// request. Priority is a pointer so a missing value can be told apart from 0.
type TaskFields struct {
	Description string   `json:"description" validate:"required"`
	Task        string   `json:"task" validate:"required"`
	Priority    *float64 `json:"priority" validate:"required,gte=0"`
	Labels      []string `json:"labels" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
