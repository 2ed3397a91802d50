package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/franfreezy/abdata/pkg/auth"
)

// Report is one entry in the backend's report listing
type Report struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	CreatedAt   string `json:"created_at"`
	FileSize    int64  `json:"file_size"`
	DownloadURL string `json:"download_url"`
	Status      string `json:"status"` // completed | processing | failed
	Description string `json:"description,omitempty"`
}

// Download is a report payload ready to stream to the browser. The caller
// must close Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// ListReports fetches the available reports. Safe to repeat.
func (c *Client) ListReports(ctx context.Context) auth.Outcome[[]Report] {
	return getJSON[[]Report](c, ctx, "/api/reports/list", "reports", "list")
}

// DownloadReport fetches a report's content. The filename comes from the
// response's Content-Disposition; when absent or unparsable a name is
// synthesized from the report ID.
func (c *Client) DownloadReport(ctx context.Context, reportID int64) auth.Outcome[Download] {
	path := fmt.Sprintf("/api/reports/%d/download/", reportID)
	req, apiErr := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if apiErr != nil {
		return auth.Failure[Download](apiErr)
	}
	// The payload is the report itself, not JSON
	req.Header.Del("Accept")

	resp, apiErr := c.do(req, "reports", "download")
	if apiErr != nil {
		return auth.Failure[Download](apiErr)
	}

	return auth.Success(Download{
		Filename:    downloadFilename(resp.Header.Get("Content-Disposition"), reportID),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	})
}

// downloadFilename parses the filename out of a Content-Disposition header,
// falling back to a synthesized report name.
func downloadFilename(disposition string, reportID int64) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("report-%d.pdf", reportID)
}
