package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/franfreezy/abdata/pkg/auth"
)

// UploadedFile is one entry in the backend's uploaded-file listing
type UploadedFile struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	FileURL    string `json:"file_url"`
	UploadedAt string `json:"uploaded_at"`
	Status     string `json:"status"` // waiting | processing | cleaned | error
	Size       int64  `json:"size"`
}

// ListFiles fetches the caller's uploaded files. Safe to repeat.
func (c *Client) ListFiles(ctx context.Context) auth.Outcome[[]UploadedFile] {
	return getJSON[[]UploadedFile](c, ctx, "/api/files/", "files", "list")
}

// DeleteFile deletes an uploaded file. Non-idempotent; the calling view
// guards it with a per-file in-flight flag so one user action fires one call.
func (c *Client) DeleteFile(ctx context.Context, fileID int64) auth.Outcome[struct{}] {
	path := fmt.Sprintf("/api/files/%d/", fileID)
	req, apiErr := c.newRequest(ctx, http.MethodDelete, path, nil, "")
	if apiErr != nil {
		return auth.Failure[struct{}](apiErr)
	}

	resp, apiErr := c.do(req, "files", "delete")
	if apiErr != nil {
		return auth.Failure[struct{}](apiErr)
	}
	resp.Body.Close()
	return auth.Success(struct{}{})
}
