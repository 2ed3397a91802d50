// Package webapp is the AB DATA web front-end.
//
// It serves the marketing page with its login/register panel and the
// authenticated dashboard (overview counters, uploaded files, reports,
// per-file analysis and data-collection forms). Each browser gets a
// server-side session keyed by a UUID cookie; the session owns a credential
// store, a submit lock that makes repeated form clicks no-ops, and a
// background stats poller. Logout tears the session down, and a periodic
// sweep does the same for sessions idle past the TTL, so abandoned
// browsers do not leave pollers running.
//
// Navigation is gated by a pure route guard: protected pages redirect
// logged-out visitors to the landing page, the auth surface redirects
// logged-in visitors to the dashboard, and the OAuth callback stays
// reachable in every state.
package webapp
