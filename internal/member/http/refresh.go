package http

import (
	"errors"
	"net/http"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/pkg/httpx"
	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/lanternworks/memberauth/pkg/metricx"
)

// RefreshHandler serves POST /api/auth/token/refresh. The refresh token
// travels in the body, never the Authorization header; that header carries
// access tokens only.
type RefreshHandler struct {
	Auth      *service.AuthService
	AccessTTL int // seconds, echoed in the response
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, badRequest("malformed request body"))
		return
	}
	if req.RefreshToken == "" {
		writeError(w, r, badRequest("refreshToken is required"))
		return
	}

	access, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		metricx.ObserveRefresh(refreshResult(err))
		writeError(w, r, err)
		return
	}

	// The refresh token is reused, not rotated; echo it back so clients
	// hold a uniform token-pair shape.
	metricx.ObserveRefresh("ok")
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: req.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    h.AccessTTL,
	})
}

func refreshResult(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwtx.ErrInvalidToken), errors.Is(err, jwtx.ErrMissingClaim):
		return "invalid"
	case errors.Is(err, service.ErrSessionNotFound):
		return "not_found"
	case errors.Is(err, service.ErrSessionConflict):
		return "conflict"
	case errors.Is(err, session.ErrUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
