package webapp

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/franfreezy/abdata/pkg/apiclient"
	"github.com/franfreezy/abdata/pkg/authgw"
	"github.com/franfreezy/abdata/pkg/config"
	"github.com/franfreezy/abdata/pkg/credstore"
	"github.com/franfreezy/abdata/pkg/httputil"
	"github.com/franfreezy/abdata/pkg/observability"
	"github.com/franfreezy/abdata/pkg/session"
)

// analysisCacheSize bounds the per-file analysis cache
const analysisCacheSize = 256

// Server is the AB DATA web front-end: it renders the marketing and
// dashboard pages, proxies the browser's data operations to the backend
// with the session's credential, and drives the auth lifecycle.
type Server struct {
	cfg       *config.Config
	router    *mux.Router
	sessions  *SessionManager
	federated *authgw.Federated
	logger    *observability.Logger
	metrics   *observability.Metrics
	templates *Templates
	odk       *ODKDirectory

	// analysis payloads cached by session+filename so tab switches do not
	// re-fetch, expiring so stale analyses age out
	analysisCache *expirable.LRU[string, apiclient.FileAnalysis]

	// deletions in flight, keyed by session+file, so a double-click cannot
	// issue the same delete twice
	deletingMu sync.Mutex
	deleting   map[string]struct{}
}

// NewServer assembles the front-end. federated may be nil when federated
// sign-in is not configured.
func NewServer(cfg *config.Config, federated *authgw.Federated, logger *observability.Logger, registry *prometheus.Registry) (*Server, error) {
	if logger == nil {
		logger = observability.NewLogger(cfg.Observability.LogLevel, nil)
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled && registry != nil {
		metrics = observability.NewMetrics(registry)
	}

	sessions, err := newSessions(cfg)
	if err != nil {
		return nil, err
	}

	templates, err := NewTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:           cfg,
		sessions:      sessions,
		federated:     federated,
		logger:        logger,
		metrics:       metrics,
		templates:     templates,
		odk:           NewODKDirectory(),
		analysisCache: expirable.NewLRU[string, apiclient.FileAnalysis](analysisCacheSize, nil, 5*time.Minute),
		deleting:      make(map[string]struct{}),
	}
	sessions.onEvict = func(sid string) {
		if federated != nil {
			federated.DropSession(sid)
		}
	}
	if err := sessions.Start(); err != nil {
		return nil, err
	}

	s.routes(registry)
	return s, nil
}

// Close stops the session idle sweep
func (s *Server) Close() {
	s.sessions.Stop()
}

func newSessions(cfg *config.Config) (*SessionManager, error) {
	if cfg.Session.RedisURL == "" {
		return NewSessionManager(nil, cfg.Session.TTL), nil
	}
	client, err := credstore.NewRedisClient(cfg.Session.RedisURL)
	if err != nil {
		return nil, err
	}
	return NewSessionManager(client, cfg.Session.TTL), nil
}

// Handler returns the root handler with the shared middleware applied
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = httputil.LoggingMiddleware(s.logger)(h)
	h = httputil.RequestIDMiddleware(h)
	h = httputil.RecoveryMiddleware(s.logger)(h)
	return h
}

func (s *Server) routes(registry *prometheus.Registry) {
	s.router = mux.NewRouter()

	// anonymous surface
	s.router.HandleFunc("/", s.instrument("landing", s.handleLanding)).Methods("GET")
	s.router.HandleFunc("/login", s.instrument("login", s.handleLogin)).Methods("POST")
	s.router.HandleFunc("/register", s.instrument("register", s.handleRegister)).Methods("POST")

	// federated handshake; the callback stays reachable in every state
	s.router.HandleFunc("/auth/federated", s.instrument("federated_begin", s.handleFederatedBegin)).Methods("GET")
	s.router.HandleFunc("/callback", s.instrument("callback", s.handleCallback)).Methods("GET")

	s.router.HandleFunc("/logout", s.instrument("logout", s.handleLogout)).Methods("POST")

	// authenticated surface
	s.router.HandleFunc("/dashboard", s.instrument("dashboard", s.handleDashboard)).Methods("GET")
	s.router.HandleFunc("/dashboard/upload", s.instrument("upload", s.handleUpload)).Methods("POST")
	s.router.HandleFunc("/dashboard/files/{id:[0-9]+}/delete", s.instrument("file_delete", s.handleDeleteFile)).Methods("POST")
	s.router.HandleFunc("/dashboard/reports/{id:[0-9]+}/download", s.instrument("report_download", s.handleReportDownload)).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", observability.Handler(registry)).Methods("GET")
	}
}

// instrument wraps a handler with per-route metrics
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	wrapped := httputil.MetricsMiddleware(s.metrics, route)(h)
	return wrapped.ServeHTTP
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

// sessionFor returns the request's browser session, binding the session
// resolver to the federated provider's event stream on first contact.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (string, *browserSession) {
	sid, sess := s.sessions.Session(w, r)
	if s.federated != nil {
		sess.bindResolver(func() func() {
			resolver := session.NewResolver(sess.store, s.federated.Bound(sid), s.logger)
			return resolver.Bind(context.Background())
		})
	}
	return sid, sess
}

// resolveState computes the session's auth state
func (s *Server) resolveState(ctx context.Context, sid string, sess *browserSession) session.State {
	var provider session.Provider
	if s.federated != nil {
		provider = s.federated.Bound(sid)
	}
	return session.NewResolver(sess.store, provider, s.logger).Resolve(ctx)
}

// client builds an API client bound to the session's credential store, so
// every call re-reads the current credential.
func (s *Server) client(sess *browserSession) *apiclient.Client {
	return apiclient.New(s.cfg.Backend.BaseURL, sess.store,
		apiclient.WithLogger(s.logger),
		apiclient.WithMetrics(s.metrics),
	)
}

// auth builds an auth gateway writing to the session's credential store
func (s *Server) auth(sess *browserSession) *authgw.Gateway {
	return authgw.NewGateway(s.cfg.Backend.BaseURL, sess.store,
		authgw.WithLogger(s.logger),
		authgw.WithMetrics(s.metrics),
	)
}
