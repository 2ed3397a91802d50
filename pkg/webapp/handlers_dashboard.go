package webapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/franfreezy/abdata/pkg/apiclient"
	"github.com/franfreezy/abdata/pkg/httputil"
	"github.com/franfreezy/abdata/pkg/poller"
)

// DashboardData is one polled snapshot of the overview counters and the
// recent-activity feed
type DashboardData struct {
	Stats      apiclient.DashboardStats
	Activities []apiclient.Activity
}

// handleDashboard renders the requested dashboard tab. Every tab's data is
// fetched with the session's current credential.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sid, sess := s.sessionFor(w, r)
	state := s.resolveState(r.Context(), sid, sess)

	if GuardRoute(RouteProtected, state.LoggedIn) == RedirectToLanding {
		http.Redirect(w, r, "/?mode=login", http.StatusSeeOther)
		return
	}

	data := DashboardPage{
		Username: state.Credential.Username,
		Tab:      r.URL.Query().Get("tab"),
		Error:    r.URL.Query().Get("error"),
	}
	if data.Tab == "" {
		data.Tab = "overview"
	}

	client := s.client(sess)
	switch data.Tab {
	case "overview":
		p := sess.StatsPoller(func() *poller.Poller[DashboardData] {
			return s.startStatsPoller(sess)
		})
		if snapshot, fetchedAt, ok := p.Latest(); ok {
			data.Overview = &snapshot
			data.StatsAsOf = fetchedAt.Format(time.RFC3339)
		}
	case "files":
		if out := client.ListFiles(r.Context()); out.OK() {
			data.Files = out.Value
		} else {
			data.Error = out.Err.Message
		}
	case "reports":
		if out := client.ListReports(r.Context()); out.OK() {
			data.Reports = out.Value
		} else {
			data.Error = out.Err.Message
		}
	case "analysis":
		s.fillAnalysisTab(r, sid, client, &data)
	case "forms":
		data.Projects = s.odk.Projects()
		data.FormsTotal = s.odk.FormsCount()
	default:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	s.templates.RenderDashboard(w, data)
}

// startStatsPoller begins background polling of the overview counters for
// one session. The poller stops when the session is torn down, on logout
// or idle eviction; a poll still in flight at that point is discarded.
func (s *Server) startStatsPoller(sess *browserSession) *poller.Poller[DashboardData] {
	client := s.client(sess)
	p := poller.New(func(ctx context.Context) (DashboardData, error) {
		statsOut := client.GetStats(ctx)
		if !statsOut.OK() {
			return DashboardData{}, statsOut.Err
		}
		data := DashboardData{Stats: statsOut.Value}
		if actOut := client.RecentActivities(ctx); actOut.OK() {
			data.Activities = actOut.Value
		}
		return data, nil
	}, s.cfg.Backend.StatsPollInterval,
		poller.WithLogger[DashboardData](s.logger),
		poller.WithMetrics[DashboardData](s.metrics),
	)
	if err := p.Start(context.Background()); err != nil {
		s.logger.WithError(err).Warn("failed to start stats poller")
	}
	return p
}

// fillAnalysisTab lists analyzed files and, when one is selected, fetches
// its payload through the expiring cache.
func (s *Server) fillAnalysisTab(r *http.Request, sid string, client *apiclient.Client, data *DashboardPage) {
	if out := client.AnalyzedFiles(r.Context()); out.OK() {
		data.AnalyzedFiles = out.Value
	} else {
		data.Error = out.Err.Message
		return
	}

	selected := r.URL.Query().Get("file")
	if selected == "" {
		return
	}
	data.SelectedFile = selected

	cacheKey := sid + "\x00" + selected
	if cached, ok := s.analysisCache.Get(cacheKey); ok {
		data.Analysis = &cached
		return
	}

	out := client.FileAnalysis(r.Context(), selected)
	if !out.OK() {
		data.Error = out.Err.Message
		return
	}
	s.analysisCache.Add(cacheKey, out.Value)
	data.Analysis = &out.Value
}

// handleUpload accepts a dataset file and forwards it to the backend. A
// submit already in flight for this session makes the repeat click a no-op;
// a failed upload is reported, never retried.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sid, sess := s.sessionFor(w, r)
	state := s.resolveState(r.Context(), sid, sess)
	if GuardRoute(RouteProtected, state.LoggedIn) == RedirectToLanding {
		http.Redirect(w, r, "/?mode=login", http.StatusSeeOther)
		return
	}

	if !sess.TrySubmit() {
		http.Redirect(w, r, "/dashboard?tab=files", http.StatusSeeOther)
		return
	}
	defer sess.EndSubmit()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.redirectDashboardError(w, r, "files", "Choose a file to upload")
		return
	}
	defer file.Close()

	out := s.client(sess).Upload(r.Context(), header.Filename, file)
	if !out.OK() {
		s.redirectDashboardError(w, r, "files", out.Err.Message)
		return
	}

	http.Redirect(w, r, "/dashboard?tab=files", http.StatusSeeOther)
}

// handleDeleteFile removes an uploaded file. Deletes are keyed per file so
// a double-click cannot issue the same delete twice while deletes of
// different files stay independent.
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	sid, sess := s.sessionFor(w, r)
	state := s.resolveState(r.Context(), sid, sess)
	if GuardRoute(RouteProtected, state.LoggedIn) == RedirectToLanding {
		http.Redirect(w, r, "/?mode=login", http.StatusSeeOther)
		return
	}

	fileID, err := httputil.ParsePathInt64(r, "id")
	if err != nil {
		http.Redirect(w, r, "/dashboard?tab=files", http.StatusSeeOther)
		return
	}

	key := fmt.Sprintf("%s/%d", sid, fileID)
	if !s.beginDelete(key) {
		http.Redirect(w, r, "/dashboard?tab=files", http.StatusSeeOther)
		return
	}
	defer s.endDelete(key)

	if out := s.client(sess).DeleteFile(r.Context(), fileID); !out.OK() {
		s.redirectDashboardError(w, r, "files", out.Err.Message)
		return
	}

	http.Redirect(w, r, "/dashboard?tab=files", http.StatusSeeOther)
}

// handleReportDownload streams a report through to the browser, preserving
// the backend's filename.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	sid, sess := s.sessionFor(w, r)
	state := s.resolveState(r.Context(), sid, sess)
	if GuardRoute(RouteProtected, state.LoggedIn) == RedirectToLanding {
		http.Redirect(w, r, "/?mode=login", http.StatusSeeOther)
		return
	}

	reportID, err := httputil.ParsePathInt64(r, "id")
	if err != nil {
		http.Redirect(w, r, "/dashboard?tab=reports", http.StatusSeeOther)
		return
	}

	out := s.client(sess).DownloadReport(r.Context(), reportID)
	if !out.OK() {
		s.redirectDashboardError(w, r, "reports", out.Err.Message)
		return
	}
	defer out.Value.Body.Close()

	w.Header().Set("Content-Type", out.Value.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Value.Filename))
	if _, err := io.Copy(w, out.Value.Body); err != nil {
		s.logger.WithError(err).Warn("report stream interrupted")
	}
}

func (s *Server) beginDelete(key string) bool {
	s.deletingMu.Lock()
	defer s.deletingMu.Unlock()
	if _, busy := s.deleting[key]; busy {
		return false
	}
	s.deleting[key] = struct{}{}
	return true
}

func (s *Server) endDelete(key string) {
	s.deletingMu.Lock()
	delete(s.deleting, key)
	s.deletingMu.Unlock()
}

func (s *Server) redirectDashboardError(w http.ResponseWriter, r *http.Request, tab, message string) {
	http.Redirect(w, r, "/dashboard?tab="+tab+"&error="+url.QueryEscape(message), http.StatusSeeOther)
}
