package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/pkg/httpx"
	"github.com/lanternworks/memberauth/pkg/metricx"
)

// TokenResponse is the wire shape for endpoints that hand out tokens.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"` // seconds
}

// SignInHandler serves POST /api/auth/signin.
type SignInHandler struct {
	Auth *service.AuthService
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, badRequest("malformed request body"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, r, badRequest("email and password are required"))
		return
	}

	pair, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		metricx.ObserveSignIn(signInResult(err))
		writeError(w, r, err)
		return
	}

	metricx.ObserveSignIn("ok")
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}

func signInResult(err error) string {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		return "bad_credentials"
	case errors.Is(err, session.ErrUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
