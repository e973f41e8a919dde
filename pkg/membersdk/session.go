package membersdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// refreshBuffer refreshes slightly before the advertised expiry so a token
// never goes stale mid-request.
const refreshBuffer = 30 * time.Second

// Session is an authenticated session with automatic access-token refresh.
// Safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(client *Client, resp *TokenResponse) *Session {
	return &Session{
		client:       client,
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		expiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - refreshBuffer),
	}
}

// RefreshToken returns the session's refresh token so callers can persist
// it across restarts.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Me fetches the member snapshot baked into the current access token.
func (s *Session) Me(ctx context.Context) (*Member, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.url("/api/members/me"), nil)
	if err != nil {
		return nil, fmt.Errorf("membersdk: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("membersdk: send request: %w", err)
	}
	defer resp.Body.Close()

	var m Member
	if err := decodeResponse(resp, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SignOut terminates the server-side session. The local tokens are cleared
// regardless of whether a record was actually removed.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	if refreshToken == "" {
		return errors.New("membersdk: session already signed out")
	}

	var out SignOutResponse
	return s.client.postJSON(ctx, "/api/auth/signout",
		map[string]string{"refreshToken": refreshToken}, &out)
}

// getValidToken returns a usable access token, refreshing it first when the
// current one is about to expire.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if s.refreshToken == "" {
		return "", errors.New("membersdk: access token expired and no refresh token held")
	}

	var resp TokenResponse
	err := s.client.postJSON(ctx, "/api/auth/token/refresh",
		map[string]string{"refreshToken": s.refreshToken}, &resp)
	if err != nil {
		return "", fmt.Errorf("membersdk: refresh failed: %w", err)
	}

	s.accessToken = resp.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - refreshBuffer)
	return s.accessToken, nil
}
