// Package apiclient provides the typed REST clients for the AB DATA
// backend: files, ETL upload, reports, dashboard stats, recent activities
// and per-file analysis.
//
// # Shared Contract
//
// Every call:
//   - reads the credential from the token store at call time; an empty
//     store fails fast with Unauthenticated and no network call is made
//   - selects the Authorization scheme from the token's shape (pkg/auth)
//   - maps non-2xx responses to an HTTP failure that prefers the backend's
//     error field over the status text
//   - maps transport failures to a network failure
//
// List and get operations are safe to repeat. Delete and upload are
// non-idempotent: the calling view guards them with per-resource in-flight
// flags, and uploads are never retried automatically.
package apiclient
