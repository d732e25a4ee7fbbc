// Package shopifytest provides an in-process stand-in for the Shopify
// Storefront GraphQL endpoint.
package shopifytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lumiere-skin/storefront/internal/config"
)

// StorefrontToken is the shop-level token the mock expects
const StorefrontToken = "test-storefront-token"

// Request is a GraphQL call received by the mock
type Request struct {
	Query           string
	Variables       map[string]interface{}
	StorefrontToken string
}

// Responder produces the HTTP status and JSON body for a call
type Responder func(req Request) (int, interface{})

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a mock endpoint that is closed when the test finishes
func NewServer(t testing.TB, respond Responder) *Server {
	t.Helper()

	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		req := Request{
			Query:           body.Query,
			Variables:       body.Variables,
			StorefrontToken: r.Header.Get("X-Shopify-Storefront-Access-Token"),
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		status, payload := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(s.Close)

	return s
}

// Requests returns the calls received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Config points a Storefront client at the mock
func (s *Server) Config() config.ShopifyConfig {
	return config.ShopifyConfig{
		StoreDomain: s.URL,
		APIVersion:  config.DefaultShopifyAPIVersion,
		AccessToken: StorefrontToken,
		Timeout:     5 * time.Second,
	}
}

// Data wraps v as a successful GraphQL body
func Data(v interface{}) map[string]interface{} {
	return map[string]interface{}{"data": v}
}

// Errors builds a GraphQL body carrying top-level errors
func Errors(messages ...string) map[string]interface{} {
	errs := make([]map[string]interface{}, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, map[string]interface{}{"message": m})
	}
	return map[string]interface{}{"errors": errs}
}

// Account is a customer registered with a Backend
type Account struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Backend is a tiny stateful customer API: it answers customerCreate,
// customerAccessTokenCreate, customer and customerAccessTokenDelete, and
// echoes anything else back as data.
type Backend struct {
	mu       sync.Mutex
	accounts map[string]Account
	tokens   map[string]string
	nextID   int
}

func NewBackend(accounts ...Account) *Backend {
	b := &Backend{
		accounts: make(map[string]Account),
		tokens:   make(map[string]string),
	}
	for _, a := range accounts {
		b.accounts[a.Email] = a
	}
	return b
}

// Respond implements Responder
func (b *Backend) Respond(req Request) (int, interface{}) {
	if req.StorefrontToken != StorefrontToken {
		return http.StatusUnauthorized, Errors("invalid storefront token")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case strings.Contains(req.Query, "customerAccessTokenCreate"):
		input, _ := req.Variables["input"].(map[string]interface{})
		email, _ := input["email"].(string)
		password, _ := input["password"].(string)

		account, ok := b.accounts[email]
		if !ok || account.Password != password {
			return http.StatusOK, Data(map[string]interface{}{
				"customerAccessTokenCreate": map[string]interface{}{
					"customerAccessToken": nil,
					"customerUserErrors": []map[string]interface{}{
						{"code": "UNIDENTIFIED_CUSTOMER", "message": "Unidentified customer"},
					},
				},
			})
		}

		token := "cat-" + account.ID
		b.tokens[token] = email
		return http.StatusOK, Data(map[string]interface{}{
			"customerAccessTokenCreate": map[string]interface{}{
				"customerAccessToken": map[string]interface{}{
					"accessToken": token,
					"expiresAt":   time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
				},
				"customerUserErrors": []interface{}{},
			},
		})

	case strings.Contains(req.Query, "customerAccessTokenDelete"):
		token, _ := req.Variables["customerAccessToken"].(string)
		delete(b.tokens, token)
		return http.StatusOK, Data(map[string]interface{}{
			"customerAccessTokenDelete": map[string]interface{}{"deletedAccessToken": token},
		})

	case strings.Contains(req.Query, "customerCreate"):
		input, _ := req.Variables["input"].(map[string]interface{})
		email, _ := input["email"].(string)
		if _, exists := b.accounts[email]; exists {
			return http.StatusOK, Data(map[string]interface{}{
				"customerCreate": map[string]interface{}{
					"customer": nil,
					"customerUserErrors": []map[string]interface{}{
						{"code": "TAKEN", "message": "Email has already been taken"},
					},
				},
			})
		}

		b.nextID++
		account := Account{
			ID:        "gid://shopify/Customer/" + strings.Repeat("9", b.nextID),
			Email:     email,
			Password:  stringValue(input["password"]),
			FirstName: stringValue(input["firstName"]),
			LastName:  stringValue(input["lastName"]),
		}
		b.accounts[email] = account
		return http.StatusOK, Data(map[string]interface{}{
			"customerCreate": map[string]interface{}{
				"customer":           map[string]interface{}{"id": account.ID, "email": account.Email},
				"customerUserErrors": []interface{}{},
			},
		})

	case strings.Contains(req.Query, "customer("):
		token, _ := req.Variables["customerAccessToken"].(string)
		email, ok := b.tokens[token]
		if !ok {
			return http.StatusOK, Data(map[string]interface{}{"customer": nil})
		}
		account := b.accounts[email]
		return http.StatusOK, Data(map[string]interface{}{
			"customer": map[string]interface{}{
				"id":        account.ID,
				"email":     account.Email,
				"firstName": account.FirstName,
				"lastName":  account.LastName,
			},
		})
	}

	return http.StatusOK, Data(map[string]interface{}{"echo": req.Variables})
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
