package dto

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=255"`
	Password string `json:"password" binding:"required,min=8,max=1024"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=2048"`
}

// UserResponse is returned after register (never includes the hash).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}
