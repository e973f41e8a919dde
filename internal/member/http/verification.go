package http

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/pkg/httpx"
)

// VerificationHandler serves the email verification endpoints that precede
// sign-up.
type VerificationHandler struct {
	Verification *service.VerificationService
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

type confirmCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verificationResponse struct {
	Message string `json:"message"`
}

// HandleSend serves POST /api/members/verify/send.
func (h *VerificationHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, badRequest("malformed request body"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, r, badRequest("invalid email address"))
		return
	}

	if err := h.Verification.SendCode(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, verificationResponse{Message: "verification code sent"})
}

// HandleConfirm serves POST /api/members/verify/confirm.
func (h *VerificationHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, badRequest("malformed request body"))
		return
	}
	if req.Email == "" || req.Code == "" {
		writeError(w, r, badRequest("email and code are required"))
		return
	}

	if err := h.Verification.Confirm(r.Context(), req.Email, req.Code); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, verificationResponse{Message: "email verified"})
}
