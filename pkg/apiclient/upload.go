package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/franfreezy/abdata/pkg/auth"
)

// UploadResult is the backend's description of a stored file
type UploadResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	FileType string `json:"file_type"`
}

// Upload streams one file as multipart form data to the ETL upload
// endpoint. The file is piped straight into the request body, never
// buffered in memory, so an upload's footprint does not grow with its
// size. Uploads are never retried automatically; a failure is reported
// with a human-readable reason and the user decides whether to try again.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) auth.Outcome[UploadResult] {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to build upload form: %w", err))
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to read %s: %w", filename, err))
			return
		}
		pw.CloseWithError(form.Close())
	}()

	req, apiErr := c.newRequest(ctx, http.MethodPost, "/api/upload/", pr, form.FormDataContentType())
	if apiErr != nil {
		pr.Close()
		return auth.Failure[UploadResult](apiErr)
	}

	resp, apiErr := c.do(req, "upload", "upload")
	if apiErr != nil {
		return auth.Failure[UploadResult](apiErr)
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := decodeBody(resp, &result); err != nil {
		return auth.Failure[UploadResult](err)
	}
	return auth.Success(result)
}

// decodeBody decodes a successful JSON response body
func decodeBody(resp *http.Response, dest interface{}) *auth.APIError {
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &auth.APIError{
			Kind:    auth.KindHTTP,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to decode response: %v", err),
		}
	}
	return nil
}
