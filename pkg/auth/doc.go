// Package auth defines the credential model shared by every part of the
// AB DATA front-end: the bearer credential and its origin, the Authorization
// scheme heuristic, the API error taxonomy, and the tagged request outcome
// returned by the auth gateway and the typed API clients.
//
// # Credentials
//
// Exactly one credential is trusted at a time. A credential is either issued
// by the AB DATA backend on login (opaque token, "Token" scheme) or
// synthesized from a federated OAuth session (JWT-shaped token, "Bearer"
// scheme). The scheme is chosen by token shape, never by call site:
//
//	header, err := auth.AuthorizationHeader(cred.Token)
//
// # Outcomes
//
// Every backend call resolves to an Outcome: either a value or an *APIError
// carrying one of the five error kinds. Nothing in this package panics and
// no failure is fatal; callers render every failure path.
//
// # Related Packages
//
//   - pkg/credstore: persistence of the single credential
//   - pkg/session: reconciliation of stored and federated credentials
//   - pkg/apiclient: typed backend clients built on this contract
package auth
