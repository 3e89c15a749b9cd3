package dto

// LoginRequest payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the public part of the account returned on login.
type LoginResponse struct {
	UID      int    `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ErrorBody is the error envelope returned by the mock API.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the classified error.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status string `json:"status"`
}
