// Package membersdk is a small client for the member auth service. It
// covers sign-up, sign-in, and the authenticated member endpoints, with
// automatic access-token refresh on Session.
package membersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the member auth service. Unauthenticated operations live
// here; SignIn upgrades to a Session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SignIn authenticates and returns a Session holding both tokens.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp TokenResponse
	err := c.postJSON(ctx, "/api/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return newSession(c, &resp), nil
}

// SignUp registers a member and returns the new member id.
func (c *Client) SignUp(ctx context.Context, email, nickname, password string) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	err := c.postJSON(ctx, "/api/members", map[string]string{
		"email":    email,
		"nickname": nickname,
		"password": password,
	}, &resp)
	return resp.ID, err
}

// SendVerificationCode asks the service to mail a code to the address.
func (c *Client) SendVerificationCode(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/api/members/verify/send", map[string]string{"email": email}, nil)
}

// ConfirmVerification submits the mailed code.
func (c *Client) ConfirmVerification(ctx context.Context, email, code string) error {
	return c.postJSON(ctx, "/api/members/verify/confirm", map[string]string{
		"email": email,
		"code":  code,
	}, nil)
}

// SessionFromTokens rebuilds a Session from stored tokens, e.g. after a
// process restart. Auto-refresh still works.
func (c *Client) SessionFromTokens(accessToken, refreshToken string, expiresIn int) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    time.Now().Add(time.Duration(expiresIn)*time.Second - refreshBuffer),
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// postJSON posts body as JSON and decodes a 2xx response into out; non-2xx
// decodes into an APIError.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("membersdk: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("membersdk: send request: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Message == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
}
