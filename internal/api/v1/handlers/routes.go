package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	v1auth "github.com/lumiere-skin/storefront/internal/api/v1/handlers/auth"
	v1shopify "github.com/lumiere-skin/storefront/internal/api/v1/handlers/shopify"
	v1mware "github.com/lumiere-skin/storefront/internal/api/v1/middleware"
	"github.com/lumiere-skin/storefront/internal/services"
)

func RegisterRoutes(router *mux.Router, services *services.Services) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		HandleHealth(services.GetShopifyService(), w, r)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth routes sit on the api router itself so a wrong method answers 405
	api.Handle("/auth/login", v1mware.RateLimit("auth_login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1auth.HandleLogin(services.GetAuthService(), services.GetSessionService(), w, r)
	}))).Methods("POST")
	api.Handle("/auth/signup", v1mware.RateLimit("auth_signup")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1auth.HandleSignup(services.GetAuthService(), services.GetSessionService(), w, r)
	}))).Methods("POST")
	api.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		v1auth.HandleMe(services.GetAuthService(), services.GetSessionService(), w, r)
	}).Methods("GET")
	api.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		v1auth.HandleLogout(services.GetAuthService(), services.GetSessionService(), w, r)
	}).Methods("POST")

	// Storefront GraphQL proxy
	api.Handle("/shopify", v1mware.RateLimit("shopify_proxy")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1shopify.HandleProxy(services.GetProxyService(), services.GetSessionService(), w, r)
	}))).Methods("POST")
}
