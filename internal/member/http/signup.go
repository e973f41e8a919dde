package http

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/pkg/httpx"
)

const (
	minPasswordLen = 8
	maxNicknameLen = 30
)

// SignUpHandler serves POST /api/members.
type SignUpHandler struct {
	SignUp *service.SignUpService
}

type signUpRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type signUpResponse struct {
	ID int64 `json:"id"`
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, badRequest("malformed request body"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Nickname = strings.TrimSpace(req.Nickname)

	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, r, badRequest("invalid email address"))
		return
	}
	if req.Nickname == "" || len(req.Nickname) > maxNicknameLen {
		writeError(w, r, badRequest("nickname must be 1-30 characters"))
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, r, badRequest("password must be at least 8 characters"))
		return
	}

	id, err := h.SignUp.SignUp(r.Context(), service.SignUpRequest{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signUpResponse{ID: id})
}
