package auth

import (
	"net/http"

	"github.com/lumiere-skin/storefront/internal/services/auth"
	"github.com/lumiere-skin/storefront/internal/services/session"
	"github.com/lumiere-skin/storefront/pkg/httpext"
	"github.com/rs/zerolog/log"
)

// HandleMe reports the login state. It always answers 200; a session that
// cannot be read counts as logged out.
func HandleMe(authService *auth.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	sess, err := sessionService.Load(r)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read session, reporting logged out")
		httpext.JsonResponse(w, http.StatusOK, auth.LoggedOut())
		return
	}

	httpext.JsonResponse(w, http.StatusOK, authService.Me(sess))
}
