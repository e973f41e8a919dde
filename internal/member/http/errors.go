package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/pkg/httpx"
	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

// ErrorResponse is the single error envelope every endpoint returns.
type ErrorResponse struct {
	Code      int       `json:"code"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// writeError translates domain errors into HTTP responses. All error
// rendering funnels through here, including the access gate's RejectFunc,
// so status mapping lives in exactly one place.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := statusOf(err)
	if code == http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
	}
	httpx.WriteJSON(w, code, ErrorResponse{
		Code:      code,
		Status:    http.StatusText(code),
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, jwtx.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, jwtx.ErrInvalidToken),
		errors.Is(err, jwtx.ErrMissingClaim):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, httpx.ErrNoBearerToken):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, httpx.ErrForbidden):
		return http.StatusForbidden, "insufficient permissions"
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionConflict):
		// Both mean "this refresh token no longer backs a session"; the
		// remedy is the same, sign in again.
		return http.StatusUnauthorized, "session expired, please sign in again"
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, service.ErrDuplicateNickname):
		return http.StatusConflict, "nickname already taken"
	case errors.Is(err, service.ErrEmailNotVerified):
		return http.StatusUnauthorized, "email not verified"
	case errors.Is(err, service.ErrVerificationFailed):
		return http.StatusBadRequest, "verification failed"
	case errors.Is(err, session.ErrUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// errBadRequest wraps malformed-payload failures from handlers.
var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return &badRequestError{msg: msg}
}

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }
func (e *badRequestError) Is(target error) bool {
	return target == errBadRequest
}
