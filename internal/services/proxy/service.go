package proxy

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/rs/zerolog/log"
)

// Operation names the kind of GraphQL document a caller is sending. It
// decides which session token injections apply.
type Operation string

const (
	// OperationInfer derives the kind from the document text
	OperationInfer Operation = ""
	// OperationCustomer needs variables.customerAccessToken
	OperationCustomer Operation = "customer"
	// OperationCartBuyerIdentity needs variables.input.buyerIdentity.customerAccessToken
	OperationCartBuyerIdentity Operation = "cartBuyerIdentityUpdate"
	// OperationPassthrough is forwarded untouched
	OperationPassthrough Operation = "passthrough"
)

const (
	customerMarker = "customer("
	cartMarker     = "cartBuyerIdentityUpdate"

	tokenField = "customerAccessToken"
)

// Request is a GraphQL call from the browser
type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
	Operation Operation              `json:"operation,omitempty"`
}

// Upstream forwards a document to the Storefront API
type Upstream interface {
	Request(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error)
}

type Service struct {
	upstream Upstream
	now      func() time.Time
}

func NewService(upstream Upstream) *Service {
	return &Service{upstream: upstream, now: time.Now}
}

// injections reports which tokens the request needs. When the caller names
// the operation that choice is final; otherwise both markers are looked for
// and a document containing both gets both tokens.
func (r Request) injections() (customer, cart bool, err error) {
	switch r.Operation {
	case OperationInfer:
		return strings.Contains(r.Query, customerMarker), strings.Contains(r.Query, cartMarker), nil
	case OperationCustomer:
		return true, false, nil
	case OperationCartBuyerIdentity:
		return false, true, nil
	case OperationPassthrough:
		return false, false, nil
	default:
		return false, false, models.NewValidationError("Unknown operation")
	}
}

// Forward injects the session's customer token where the document needs it
// and passes the call upstream. No upstream call is made when the request is
// rejected.
func (s *Service) Forward(ctx context.Context, sess *models.Session, req Request) (json.RawMessage, error) {
	if req.Query == "" {
		return nil, models.NewValidationError("Missing query")
	}

	needsCustomer, needsCart, err := req.injections()
	if err != nil {
		return nil, err
	}

	variables := copyMap(req.Variables)

	if needsCustomer && isAbsent(variables[tokenField]) {
		token, ok := sess.AccessToken(s.now())
		if !ok {
			return nil, models.NewAuthError("Not authenticated")
		}
		variables[tokenField] = token
	}

	if needsCart {
		variables, err = s.injectBuyerIdentity(sess, variables)
		if err != nil {
			return nil, err
		}
	}

	data, err := s.upstream.Request(ctx, req.Query, variables)
	if err != nil {
		log.Error().
			Err(err).
			Str("operation", string(req.Operation)).
			Bool("customer_token", needsCustomer).
			Bool("cart_token", needsCart).
			Msg("Failed to proxy Shopify request")
		return nil, models.NewServerError("Error proxying request", err)
	}

	return data, nil
}

// injectBuyerIdentity sets variables.input.buyerIdentity.customerAccessToken,
// creating the intermediate objects as needed. Maps along the path are copied
// so the caller's variables are never modified.
func (s *Service) injectBuyerIdentity(sess *models.Session, variables map[string]interface{}) (map[string]interface{}, error) {
	input, ok := asObject(variables["input"])
	if !ok {
		return nil, models.NewValidationError("Invalid cart input")
	}
	buyerIdentity, ok := asObject(input["buyerIdentity"])
	if !ok {
		return nil, models.NewValidationError("Invalid cart input")
	}

	if !isAbsent(buyerIdentity[tokenField]) {
		return variables, nil
	}

	token, found := sess.AccessToken(s.now())
	if !found {
		return nil, models.NewAuthError("Not authenticated")
	}

	buyerIdentity = copyMap(buyerIdentity)
	buyerIdentity[tokenField] = token

	input = copyMap(input)
	input["buyerIdentity"] = buyerIdentity

	variables["input"] = input
	return variables, nil
}

// asObject accepts a JSON object or nothing at all; nothing yields an empty
// object.
func asObject(v interface{}) (map[string]interface{}, bool) {
	if v == nil {
		return map[string]interface{}{}, true
	}
	obj, ok := v.(map[string]interface{})
	return obj, ok
}

func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
