package webapp

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/franfreezy/abdata/pkg/httputil"
	"github.com/franfreezy/abdata/pkg/observability"
)

// stateCookie protects the federated handshake against CSRF
const stateCookie = "abdata_oauth_state"

// handleLanding renders the marketing page with the login/register panel.
// An authenticated visitor is sent straight to the dashboard.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	sid, sess := s.sessionFor(w, r)
	state := s.resolveState(r.Context(), sid, sess)

	if GuardRoute(RouteAnonymous, state.LoggedIn) == RedirectToDashboard {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	s.templates.RenderLanding(w, LandingData{
		Mode:             r.URL.Query().Get("mode"),
		Error:            r.URL.Query().Get("error"),
		Registered:       r.URL.Query().Get("registered") == "1",
		FederatedEnabled: s.federated != nil,
	})
}

// handleLogin posts the login form to the backend. A submit already in
// flight for this session makes the repeat click a no-op redirect.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, sess := s.sessionFor(w, r)

	if !sess.TrySubmit() {
		http.Redirect(w, r, "/?mode=login", http.StatusSeeOther)
		return
	}
	defer sess.EndSubmit()

	username, okUser := httputil.FormValue(r, "username")
	password := r.FormValue("password")
	if !okUser || password == "" {
		s.redirectAuthError(w, r, "login", "Username and password are required")
		return
	}

	out := s.auth(sess).Login(r.Context(), username, password)
	if !out.OK() {
		s.redirectAuthError(w, r, "login", out.Err.Message)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleRegister creates an account. Success switches the panel to login
// mode; it never signs the visitor in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	_, sess := s.sessionFor(w, r)

	if !sess.TrySubmit() {
		http.Redirect(w, r, "/?mode=register", http.StatusSeeOther)
		return
	}
	defer sess.EndSubmit()

	username, okUser := httputil.FormValue(r, "username")
	email, okEmail := httputil.FormValue(r, "email")
	password := r.FormValue("password")
	if !okUser || !okEmail || password == "" {
		s.redirectAuthError(w, r, "register", "All fields are required")
		return
	}

	out := s.auth(sess).Register(r.Context(), username, email, password)
	if !out.OK() {
		s.redirectAuthError(w, r, "register", out.Err.Message)
		return
	}

	http.Redirect(w, r, "/?mode=login&registered=1", http.StatusSeeOther)
}

// handleFederatedBegin starts the redirect handshake with the identity
// provider
func (s *Server) handleFederatedBegin(w http.ResponseWriter, r *http.Request) {
	if s.federated == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.sessionFor(w, r)

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})

	http.Redirect(w, r, s.federated.AuthCodeURL(state), http.StatusFound)
}

// handleCallback finishes the federated handshake. This route must stay
// reachable regardless of auth state, or the handshake can never complete.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.federated == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sid, sess := s.sessionFor(w, r)
	log := observability.FromContext(observability.WithSessionID(r.Context(), sid))

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		log.WithField("provider_error", errParam).Warn("federated sign-in rejected")
		s.redirectAuthError(w, r, "login", "Sign-in was cancelled or rejected.")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		s.redirectAuthError(w, r, "login", "Sign-in session expired. Please try again.")
		return
	}
	// state is single-use
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		s.redirectAuthError(w, r, "login", "Sign-in session expired. Please try again.")
		return
	}

	if _, err := s.federated.CompleteSignIn(r.Context(), sid, code); err != nil {
		log.WithError(err).Warn("federated sign-in failed")
		s.redirectAuthError(w, r, "login", "An error occurred. Please try again.")
		return
	}

	// the SIGNED_IN event has persisted the credential; resolve to make the
	// session current before landing on the dashboard
	s.resolveState(r.Context(), sid, sess)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout runs the compound sign-out: drop the stored credential, stop
// the session's background work, end the federated session, then evict the
// session itself so nothing lingers server-side. Each step runs even when
// an earlier one fails, and the visitor always ends up on the landing page.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sid, sess := s.sessions.Peek(r)
	if sess != nil {
		log := observability.FromContext(observability.WithSessionID(r.Context(), sid))
		if err := sess.store.Clear(r.Context()); err != nil {
			log.WithError(err).Warn("failed to clear credential on logout")
		}
		sess.StopStats()
		if s.federated != nil {
			if err := s.federated.SignOutSession(r.Context(), sid); err != nil {
				log.WithError(err).Warn("federated sign-out failed")
			}
		}
		if s.metrics != nil {
			s.metrics.LogoutsTotal.Inc()
		}
		s.sessions.Evict(sid)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) redirectAuthError(w http.ResponseWriter, r *http.Request, mode, message string) {
	http.Redirect(w, r, "/?mode="+mode+"&error="+url.QueryEscape(message), http.StatusSeeOther)
}
