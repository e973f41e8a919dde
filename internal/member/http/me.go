package http

import (
	"net/http"

	"github.com/lanternworks/memberauth/pkg/httpx"
)

// MeHandler serves GET /api/members/me: the principal as baked into the
// presented access token, no store round trip.
type MeHandler struct{}

type meResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

func (MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		// The access gate guarantees a principal; this is a wiring bug.
		writeError(w, r, httpx.ErrNoBearerToken)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, meResponse{
		ID:       p.ID,
		Email:    p.Email,
		Nickname: p.Nickname,
		Role:     p.Role,
	})
}
