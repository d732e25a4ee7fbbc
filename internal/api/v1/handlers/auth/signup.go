package auth

import (
	"net/http"

	"github.com/lumiere-skin/storefront/internal/services/auth"
	"github.com/lumiere-skin/storefront/internal/services/session"
	"github.com/lumiere-skin/storefront/pkg/httpext"
	"github.com/rs/zerolog/log"
)

// HandleSignup creates a customer and logs them straight in
func HandleSignup(authService *auth.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var input auth.SignupInput
	if err := httpext.DecodeJSON(r, &input); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed signup request")
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity, err := authService.Signup(r.Context(), input)
	if err != nil {
		respondError(w, err, "Signup failed")
		return
	}

	establish(sessionService, identity, w, r)
}
