package domain

import "time"

// TokenPair is what sign-in returns: a short-lived access token and the
// refresh token whose twin sits in the session store. The HTTP layer owns
// the wire shape; this is the service-level view.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "Bearer"
	ExpiresIn    time.Duration
}
