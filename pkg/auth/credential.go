package auth

import "strings"

// Source identifies where a credential was issued
type Source string

const (
	// SourceLocal is a token issued by the AB DATA backend on login
	SourceLocal Source = "local"
	// SourceFederated is an access token from the federated OAuth provider
	SourceFederated Source = "federated"
)

// Credential is the bearer token currently trusted by the client, plus its
// origin. The client never fabricates a federated credential; it is only
// synthesized from a provider-validated session.
type Credential struct {
	Token    string `json:"token"`
	Source   Source `json:"source"`
	Username string `json:"username,omitempty"`
}

// Valid reports whether the credential carries a usable token
func (c *Credential) Valid() bool {
	return c != nil && c.Token != ""
}

// InferSource classifies a raw token by shape: JWTs (three dot-delimited
// segments) come from the federated provider, anything else is a backend
// token. Used when re-hydrating a credential from storage that predates the
// explicit source field.
func InferSource(token string) Source {
	if strings.Count(token, ".") == 2 {
		return SourceFederated
	}
	return SourceLocal
}
