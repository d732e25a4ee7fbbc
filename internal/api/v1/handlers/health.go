package handlers

import (
	"net/http"

	"github.com/lumiere-skin/storefront/internal/infrastructure/shopify"
	"github.com/lumiere-skin/storefront/pkg/httpext"
)

type HealthResponse struct {
	Status            string `json:"status"`
	ShopifyConfigured bool   `json:"shopifyConfigured"`
}

func HandleHealth(shopifyService *shopify.Service, w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, HealthResponse{
		Status:            "ok",
		ShopifyConfigured: shopifyService.Configured(),
	})
}
