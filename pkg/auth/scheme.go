package auth

import (
	"fmt"
	"strings"
)

// Authorization header schemes understood by the AB DATA backend
const (
	// SchemeBearer is used for JWT-shaped federated tokens
	SchemeBearer = "Bearer"
	// SchemeToken is used for opaque backend-issued tokens
	SchemeToken = "Token"
)

// Scheme selects the Authorization scheme for a token by inspecting its
// shape: a three-segment dot-delimited token is a JWT from the federated
// provider and uses "Bearer"; any other non-empty token is an opaque backend
// token and uses "Token". The heuristic lives here, once, instead of being
// repeated at every call site.
func Scheme(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty token")
	}
	if len(strings.Split(token, ".")) == 3 {
		return SchemeBearer, nil
	}
	return SchemeToken, nil
}

// AuthorizationHeader builds the full Authorization header value for a token
func AuthorizationHeader(token string) (string, error) {
	scheme, err := Scheme(token)
	if err != nil {
		return "", err
	}
	return scheme + " " + token, nil
}
