package webapp

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/franfreezy/abdata/pkg/apiclient"
)

// LandingData feeds the marketing page and its auth panel
type LandingData struct {
	Mode             string // login | register
	Error            string
	Registered       bool
	FederatedEnabled bool
}

// DashboardPage feeds one dashboard render
type DashboardPage struct {
	Username string
	Tab      string
	Error    string

	Overview  *DashboardData
	StatsAsOf string

	Files   []apiclient.UploadedFile
	Reports []apiclient.Report

	AnalyzedFiles []string
	SelectedFile  string
	Analysis      *apiclient.FileAnalysis

	Projects   []ODKProject
	FormsTotal int
}

// Templates holds the parsed page templates
type Templates struct {
	landing   *template.Template
	dashboard *template.Template
}

// NewTemplates parses the built-in pages
func NewTemplates() (*Templates, error) {
	landing, err := template.New("landing").Parse(landingHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse landing template: %w", err)
	}
	dashboard, err := template.New("dashboard").Parse(dashboardHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &Templates{landing: landing, dashboard: dashboard}, nil
}

// RenderLanding writes the marketing page
func (t *Templates) RenderLanding(w http.ResponseWriter, data LandingData) {
	if data.Mode == "" {
		data.Mode = "login"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t.landing.Execute(w, data)
}

// RenderDashboard writes the dashboard page
func (t *Templates) RenderDashboard(w http.ResponseWriter, data DashboardPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t.dashboard.Execute(w, data)
}

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>AB DATA - Agricultural Data Platform</title>
</head>
<body>
<header>
  <h1>AB DATA</h1>
  <p>Collect, clean and analyze agricultural field data in one place.</p>
</header>
<main>
  <section id="auth">
    {{if .Registered}}<p class="notice">Account created. Please log in.</p>{{end}}
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}

    {{if eq .Mode "register"}}
    <h2>Create account</h2>
    <form method="post" action="/register">
      <label>Username <input name="username" required></label>
      <label>Email <input name="email" type="email" required></label>
      <label>Password <input name="password" type="password" required></label>
      <button type="submit">Register</button>
    </form>
    <p><a href="/?mode=login">Already have an account? Log in</a></p>
    {{else}}
    <h2>Log in</h2>
    <form method="post" action="/login">
      <label>Username <input name="username" required></label>
      <label>Password <input name="password" type="password" required></label>
      <button type="submit">Log in</button>
    </form>
    {{if .FederatedEnabled}}<p><a href="/auth/federated">Sign in with your organization</a></p>{{end}}
    <p><a href="/?mode=register">New here? Create an account</a></p>
    {{end}}
  </section>
</main>
</body>
</html>`

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>AB DATA - Dashboard</title>
</head>
<body>
<header>
  <h1>AB DATA</h1>
  <span>Signed in as {{.Username}}</span>
  <form method="post" action="/logout"><button type="submit">Log out</button></form>
</header>
<nav>
  <a href="/dashboard">Overview</a>
  <a href="/dashboard?tab=files">Files</a>
  <a href="/dashboard?tab=reports">Reports</a>
  <a href="/dashboard?tab=analysis">Analysis</a>
  <a href="/dashboard?tab=forms">Forms</a>
</nav>
<main>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}

  {{if eq .Tab "overview"}}
  <section id="overview">
    {{if .Overview}}
    <ul>
      <li>Total uploads: {{.Overview.Stats.TotalUploads}} ({{printf "%+.1f" .Overview.Stats.UploadsTrend}}%)</li>
      <li>Uploads last week: {{.Overview.Stats.LastWeekUploads}}</li>
      <li>Active users: {{.Overview.Stats.ActiveUsers}} ({{printf "%+.1f" .Overview.Stats.UsersTrend}}%)</li>
      <li>Total forms: {{.Overview.Stats.TotalForms}} ({{printf "%+.1f" .Overview.Stats.FormsTrend}}%)</li>
    </ul>
    <h3>Recent activity</h3>
    <ul>
      {{range .Overview.Activities}}<li>{{.Type}}: {{.FileName}} ({{.Status}}) at {{.Timestamp}}</li>{{end}}
    </ul>
    <p><small>As of {{$.StatsAsOf}}</small></p>
    {{else}}
    <p>Loading statistics...</p>
    {{end}}
  </section>
  {{end}}

  {{if eq .Tab "files"}}
  <section id="files">
    <form method="post" action="/dashboard/upload" enctype="multipart/form-data">
      <input type="file" name="file" required>
      <button type="submit">Upload</button>
    </form>
    <table>
      <tr><th>Name</th><th>Uploaded</th><th>Status</th><th>Size</th><th></th></tr>
      {{range .Files}}
      <tr>
        <td>{{.Filename}}</td><td>{{.UploadedAt}}</td><td>{{.Status}}</td><td>{{.Size}}</td>
        <td><form method="post" action="/dashboard/files/{{.ID}}/delete"><button type="submit">Delete</button></form></td>
      </tr>
      {{end}}
    </table>
  </section>
  {{end}}

  {{if eq .Tab "reports"}}
  <section id="reports">
    <table>
      <tr><th>Name</th><th>Type</th><th>Created</th><th>Status</th><th></th></tr>
      {{range .Reports}}
      <tr>
        <td>{{.Name}}</td><td>{{.Type}}</td><td>{{.CreatedAt}}</td><td>{{.Status}}</td>
        <td>{{if eq .Status "completed"}}<a href="/dashboard/reports/{{.ID}}/download">Download</a>{{end}}</td>
      </tr>
      {{end}}
    </table>
  </section>
  {{end}}

  {{if eq .Tab "analysis"}}
  <section id="analysis">
    <ul>
      {{range .AnalyzedFiles}}<li><a href="/dashboard?tab=analysis&file={{.}}">{{.}}</a></li>{{end}}
    </ul>
    {{if .Analysis}}
    <h3>{{.Analysis.Filename}}</h3>
    <p>{{.Analysis.Metadata.Rows}} rows, {{.Analysis.Metadata.Columns}} columns</p>
    <ul>
      {{range .Analysis.Analysis.Insights}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
  </section>
  {{end}}

  {{if eq .Tab "forms"}}
  <section id="forms">
    <p>{{.FormsTotal}} forms available</p>
    {{range .Projects}}
    <h3>{{.Name}}</h3>
    <ul>
      {{range .Forms}}
      <li>{{.Title}} ({{.Status}}){{if .FormURL}} <a href="{{.FormURL}}" target="_blank" rel="noopener">Open form</a>{{end}}</li>
      {{end}}
    </ul>
    {{end}}
  </section>
  {{end}}
</main>
</body>
</html>`
