package webapp

// RouteClass describes how a route relates to authentication
type RouteClass int

const (
	// RoutePublic is reachable in every state (health, metrics, callback)
	RoutePublic RouteClass = iota
	// RouteAnonymous is the landing/auth surface, shown only when logged out
	RouteAnonymous
	// RouteProtected requires an authenticated session
	RouteProtected
)

// GuardDecision is the outcome of routing a request through the guard
type GuardDecision int

const (
	// Allow serves the route as requested
	Allow GuardDecision = iota
	// RedirectToLanding sends the visitor to the landing page to sign in
	RedirectToLanding
	// RedirectToDashboard sends an authenticated visitor off the auth surface
	RedirectToDashboard
)

// GuardRoute decides what to do with a request given the route's class and
// whether the session is authenticated. Pure so the redirect table is
// testable without a server. The OAuth callback must be classed public:
// it is the one route that has to work mid-handshake, before any state
// exists.
func GuardRoute(class RouteClass, loggedIn bool) GuardDecision {
	switch class {
	case RouteProtected:
		if !loggedIn {
			return RedirectToLanding
		}
	case RouteAnonymous:
		if loggedIn {
			return RedirectToDashboard
		}
	}
	return Allow
}
