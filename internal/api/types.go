package api

// ListResponse is the envelope for paginated list endpoints.
type ListResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

// TokenResponse carries a freshly issued JWT.
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginRequest is the credentials payload for /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
