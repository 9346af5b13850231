package dto

// Pagination is the page metadata returned by every list endpoint
type Pagination struct {
	Current    int   `json:"current"`
	Total      int   `json:"total"`
	Count      int   `json:"count"`
	TotalItems int64 `json:"totalItems"`
}

// FieldError carries one field-level validation message
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIResponse is the JSON envelope shared by all endpoints
type APIResponse struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	Data       interface{}  `json:"data,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Error      string       `json:"error,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

// NewDataResponse wraps data in a success envelope
func NewDataResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// NewListResponse wraps a page of data with its pagination metadata
func NewListResponse(data interface{}, pagination Pagination) APIResponse {
	return APIResponse{Success: true, Data: data, Pagination: &pagination}
}

// NewMessageResponse wraps data with a human-readable outcome message
func NewMessageResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// NewErrorResponse builds the failure envelope; detail carries the underlying
// error text when it is safe to expose
func NewErrorResponse(message, detail string) APIResponse {
	return APIResponse{Success: false, Message: message, Error: detail}
}

// NewValidationErrorResponse builds the failure envelope for binding errors
func NewValidationErrorResponse(errors []FieldError) APIResponse {
	return APIResponse{Success: false, Message: "Validation failed", Errors: errors}
}
