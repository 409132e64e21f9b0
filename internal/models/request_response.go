package models

// Request models
type RegisterForEventRequest struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
}

type CreatePostRequest struct {
	Title          string         `json:"title" binding:"required"`
	Content        string         `json:"content" binding:"required"`
	Category       string         `json:"category" binding:"required"`
	AuthorEmail    string         `json:"author_email" binding:"required,email"`
	VisibilityMode VisibilityMode `json:"visibility_mode" binding:"omitempty,oneof=real_name nickname anonymous"`
}

type RedeemTokensRequest struct {
	UserEmail   string `json:"userEmail" binding:"required,email"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"required"`
}

// Response models
type RegistrationResponse struct {
	Registration *EventRegistration `json:"registration"`
	Transaction  *TokenTransaction  `json:"transaction"`
}

type BalanceResponse struct {
	UserEmail string `json:"userEmail"`
	Balance   int64  `json:"balance"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries a single human-readable message, matching what the
// frontend expects from every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
}
