package apiclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		want        string
	}{
		{"quoted", `attachment; filename="yield-report.pdf"`, "yield-report.pdf"},
		{"unquoted", `attachment; filename=summary.xlsx`, "summary.xlsx"},
		{"absent", "", "report-9.pdf"},
		{"no filename param", "attachment", "report-9.pdf"},
		{"garbage", ";;;", "report-9.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, downloadFilename(tt.disposition, 9))
		})
	}
}

func TestDownloadReport(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports/5/download/", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="q2-yield.pdf"`)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}), localCred())

	out := client.DownloadReport(context.Background(), 5)
	require.True(t, out.OK(), "outcome: %v", out.Err)
	defer out.Value.Body.Close()

	assert.Equal(t, "q2-yield.pdf", out.Value.Filename)
	assert.Equal(t, "application/pdf", out.Value.ContentType)

	content, err := io.ReadAll(out.Value.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(content))
}

func TestDownloadReport_SynthesizedFilename(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	}), localCred())

	out := client.DownloadReport(context.Background(), 12)
	require.True(t, out.OK(), "outcome: %v", out.Err)
	defer out.Value.Body.Close()
	assert.Equal(t, "report-12.pdf", out.Value.Filename)
}

func TestListReports_Decodes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports/list", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Weekly Yield","type":"pdf","created_at":"2025-06-02","file_size":1024,"download_url":"/api/reports/1/download/","status":"completed"}]`))
	}), localCred())

	out := client.ListReports(context.Background())
	require.True(t, out.OK(), "outcome: %v", out.Err)
	require.Len(t, out.Value, 1)
	assert.Equal(t, "Weekly Yield", out.Value[0].Name)
	assert.Equal(t, "completed", out.Value[0].Status)
}
