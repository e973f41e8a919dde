package http

import (
	"net/http"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/pkg/httpx"
)

// SignOutHandler serves POST /api/auth/signout. Takes the refresh token in
// the body; an expired one is still honoured so clients can always clean up
// their session.
type SignOutHandler struct {
	Auth *service.AuthService
}

type signOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type signOutResponse struct {
	SignedOut bool   `json:"signedOut"`
	Message   string `json:"message"`
}

func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signOutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, badRequest("malformed request body"))
		return
	}
	if req.RefreshToken == "" {
		writeError(w, r, badRequest("refreshToken is required"))
		return
	}

	removed, err := h.Auth.SignOut(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "signed out"
	if !removed {
		msg = "no active session"
	}
	httpx.WriteJSON(w, http.StatusOK, signOutResponse{SignedOut: removed, Message: msg})
}
