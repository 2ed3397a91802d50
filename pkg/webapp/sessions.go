package webapp

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/franfreezy/abdata/pkg/credstore"
	"github.com/franfreezy/abdata/pkg/poller"
)

// SessionCookie names the browser session cookie
const SessionCookie = "abdata_session"

// browserSession is the server-side state for one browser: its credential
// store plus the submit lock that serializes form posts so a double-click
// cannot fire two logins or two uploads.
type browserSession struct {
	store  credstore.Store
	submit sync.Mutex

	// lastSeen is guarded by the owning manager's mu
	lastSeen time.Time

	bindMu sync.Mutex
	unbind func()

	statsMu sync.Mutex
	stats   *poller.Poller[DashboardData]
}

// TrySubmit claims the session's submit lock without blocking. It returns
// false while another submit for the same session is still in flight.
func (s *browserSession) TrySubmit() bool {
	return s.submit.TryLock()
}

// EndSubmit releases the submit lock
func (s *browserSession) EndSubmit() {
	s.submit.Unlock()
}

// bindResolver attaches the session resolver to the provider's event
// stream once, keeping the release func so teardown can detach it again.
func (s *browserSession) bindResolver(bind func() func()) {
	s.bindMu.Lock()
	defer s.bindMu.Unlock()
	if s.unbind == nil {
		s.unbind = bind()
	}
}

// release detaches the resolver from the provider's event stream. Calling
// it again, or without a prior bind, is a no-op.
func (s *browserSession) release() {
	s.bindMu.Lock()
	unbind := s.unbind
	s.unbind = nil
	s.bindMu.Unlock()
	if unbind != nil {
		unbind()
	}
}

// teardown ends the session's background work: the stats poller stops and
// the resolver subscription is released
func (s *browserSession) teardown() {
	s.StopStats()
	s.release()
}

// StatsPoller returns the session's stats poller, creating and starting it
// on first use. create must return a started poller.
func (s *browserSession) StatsPoller(create func() *poller.Poller[DashboardData]) *poller.Poller[DashboardData] {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if s.stats == nil {
		s.stats = create()
	}
	return s.stats
}

// StopStats halts the stats poller if one is running. A poll already in
// flight is discarded, never applied, once this returns.
func (s *browserSession) StopStats() {
	s.statsMu.Lock()
	p := s.stats
	s.stats = nil
	s.statsMu.Unlock()

	if p != nil {
		p.Stop()
	}
}

// SessionManager hands out per-browser sessions keyed by a UUID cookie.
// Credential stores live in redis when a client is configured, otherwise in
// process memory. Submit locks are always in-process.
//
// Sessions do not live forever: a periodic sweep tears down any session
// idle past the TTL, and Evict tears one down immediately on logout.
type SessionManager struct {
	redis *redis.Client
	ttl   time.Duration

	// onEvict runs after a torn-down session is removed, outside the
	// manager lock, so provider-side state can be dropped with it
	onEvict func(sid string)

	mu       sync.Mutex
	sessions map[string]*browserSession
	sweeper  *cron.Cron
}

// NewSessionManager creates a manager. redis may be nil for in-memory
// credential storage.
func NewSessionManager(redisClient *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{
		redis:    redisClient,
		ttl:      ttl,
		sessions: make(map[string]*browserSession),
	}
}

// Start launches the idle sweep. It runs at half the session TTL, clamped
// to once per second.
func (m *SessionManager) Start() error {
	m.mu.Lock()
	if m.sweeper != nil {
		m.mu.Unlock()
		return errors.New("session sweep already started")
	}
	c := cron.New()
	m.sweeper = c
	m.mu.Unlock()

	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		m.EvictIdle(time.Now())
	}); err != nil {
		return err
	}
	c.Start()
	return nil
}

// Stop halts the idle sweep and waits for a sweep in flight to finish.
// Live sessions are left intact.
func (m *SessionManager) Stop() {
	m.mu.Lock()
	c := m.sweeper
	m.sweeper = nil
	m.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// EvictIdle tears down every session whose last request is older than the
// TTL and reports how many were evicted.
func (m *SessionManager) EvictIdle(now time.Time) int {
	m.mu.Lock()
	expired := make(map[string]*browserSession)
	for sid, sess := range m.sessions {
		if now.Sub(sess.lastSeen) >= m.ttl {
			expired[sid] = sess
			delete(m.sessions, sid)
		}
	}
	m.mu.Unlock()

	for sid, sess := range expired {
		m.evict(sid, sess)
	}
	return len(expired)
}

// Evict tears down one session immediately, as on logout. Unknown session
// IDs are a no-op.
func (m *SessionManager) Evict(sid string) {
	m.mu.Lock()
	sess := m.sessions[sid]
	delete(m.sessions, sid)
	m.mu.Unlock()

	if sess != nil {
		m.evict(sid, sess)
	}
}

func (m *SessionManager) evict(sid string, sess *browserSession) {
	sess.teardown()
	if m.onEvict != nil {
		m.onEvict(sid)
	}
}

// Session returns the browser session for the request, minting the cookie
// on first contact. The returned session ID identifies the browser to the
// federated provider.
func (m *SessionManager) Session(w http.ResponseWriter, r *http.Request) (string, *browserSession) {
	sid := ""
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		sid = cookie.Value
	}
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(m.ttl / time.Second),
		})
	}
	return sid, m.lookup(sid)
}

// Peek returns the existing session for the request without minting one.
func (m *SessionManager) Peek(r *http.Request) (string, *browserSession) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", nil
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", nil
	}
	return cookie.Value, m.lookup(cookie.Value)
}

func (m *SessionManager) lookup(sid string) *browserSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[sid]; ok {
		sess.lastSeen = time.Now()
		return sess
	}

	var store credstore.Store
	if m.redis != nil {
		store = credstore.NewRedisStore(m.redis, sid, m.ttl)
	} else {
		store = credstore.NewMemoryStore()
	}
	sess := &browserSession{store: store, lastSeen: time.Now()}
	m.sessions[sid] = sess
	return sess
}
