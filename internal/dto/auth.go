package dto

import "github.com/ReportMitra/citizen-client/internal/model"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type GoogleAuthRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse is returned by login, register and google-auth.
type AuthResponse struct {
	Tokens model.Tokens `json:"tokens"`
	User   *model.User  `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type SessionStatus struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user"`
}

type LogoutResponse struct {
	RedirectTo string `json:"redirect_to"`
}
