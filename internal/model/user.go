package model

type User struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	IsEmailVerified bool   `json:"is_email_verified"`
	KindeID         string `json:"kinde_id,omitempty"`
}

// Tokens is the bearer pair issued by the backend.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
