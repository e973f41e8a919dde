package membersdk

import "time"

// TokenResponse is the token payload returned by sign-in and refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"` // seconds
}

// Member is the authenticated member view returned by Me.
type Member struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// SignOutResponse reports whether a session record was actually removed.
type SignOutResponse struct {
	SignedOut bool   `json:"signedOut"`
	Message   string `json:"message"`
}

// ErrorResponse is the service's error envelope.
type ErrorResponse struct {
	Code      int       `json:"code"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
