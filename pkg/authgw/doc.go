// Package authgw performs authentication against the AB DATA backend and
// the federated identity provider.
//
// The Gateway handles username/password login and registration over the
// backend's JSON endpoints, normalizing every response into an outcome: a
// 400 or 401 rejection carries the backend's error text verbatim, anything
// else collapses to a generic retry message. Successful logins write a
// local credential to the credential store so the very next session resolve
// reports logged in.
//
// Federated drives the redirect-based OAuth/OIDC handshake. Its state is
// scoped per browser session: each session gets its own provider session
// and its own event bus, exposed to the session resolver through Bound.
package authgw
