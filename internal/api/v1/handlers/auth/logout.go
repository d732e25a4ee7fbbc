package auth

import (
	"net/http"

	"github.com/lumiere-skin/storefront/internal/services/auth"
	"github.com/lumiere-skin/storefront/internal/services/session"
	"github.com/lumiere-skin/storefront/pkg/httpext"
	"github.com/rs/zerolog/log"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// HandleLogout revokes the customer token and destroys the session. Logging
// out without a session succeeds.
func HandleLogout(authService *auth.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	sess, err := sessionService.Load(r)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read session before logout")
	}
	if sess != nil {
		authService.Logout(r.Context(), sess)
	}

	if err := sessionService.Destroy(r.Context(), w, r); err != nil {
		log.Error().Err(err).Msg("Failed to destroy session")
		httpext.JsonError(w, "Logout failed", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
