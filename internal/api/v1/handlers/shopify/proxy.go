package shopify

import (
	"encoding/json"
	"net/http"

	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/lumiere-skin/storefront/internal/services/proxy"
	"github.com/lumiere-skin/storefront/internal/services/session"
	"github.com/lumiere-skin/storefront/pkg/httpext"
	"github.com/rs/zerolog/log"
)

type DataResponse struct {
	Data json.RawMessage `json:"data"`
}

// HandleProxy forwards a GraphQL document to the Storefront API, filling in
// the session's customer token where the document needs one.
func HandleProxy(proxyService *proxy.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var req proxy.Request
	if err := httpext.DecodeJSON(r, &req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed proxy request")
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := sessionService.Load(r)
	if err != nil {
		// treated as anonymous; token-requiring documents are then rejected
		log.Warn().Err(err).Msg("Failed to read session for proxy request")
		sess = nil
	}

	data, err := proxyService.Forward(r.Context(), sess, req)
	if err != nil {
		status, message := models.StatusAndMessage(err, "Error proxying request")
		if status < http.StatusInternalServerError {
			log.Info().Int("status", status).Str("reason", message).Msg("Proxy request rejected")
		}
		httpext.JsonError(w, message, status)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, DataResponse{Data: data})
}
