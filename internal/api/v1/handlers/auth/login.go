package auth

import (
	"net/http"

	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/lumiere-skin/storefront/internal/services/auth"
	"github.com/lumiere-skin/storefront/internal/services/session"
	"github.com/lumiere-skin/storefront/pkg/httpext"
	"github.com/rs/zerolog/log"
)

// CustomerResponse is the body of a successful login or signup. It carries
// the profile only; the access token stays in the session.
type CustomerResponse struct {
	Customer models.Customer `json:"customer"`
}

// HandleLogin exchanges credentials for a customer session
func HandleLogin(authService *auth.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if err := httpext.DecodeJSON(r, &input); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed login request")
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity, err := authService.Login(r.Context(), input)
	if err != nil {
		respondError(w, err, "Login failed")
		return
	}

	establish(sessionService, identity, w, r)
}

// establish stores the identity in a new session and answers with the
// customer profile
func establish(sessionService *session.Service, identity *auth.Identity, w http.ResponseWriter, r *http.Request) {
	if _, err := sessionService.Establish(r.Context(), w, r, &identity.Token, &identity.Customer); err != nil {
		log.Error().Err(err).Str("customer_id", identity.Customer.ID).Msg("Failed to store session")
		httpext.JsonError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, CustomerResponse{Customer: identity.Customer})
}

func respondError(w http.ResponseWriter, err error, fallback string) {
	status, message := models.StatusAndMessage(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("Auth request failed")
	} else {
		log.Info().Int("status", status).Str("reason", message).Msg("Auth request rejected")
	}
	httpext.JsonError(w, message, status)
}
