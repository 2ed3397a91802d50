package apiclient

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/franfreezy/abdata/pkg/auth"
)

// FileAnalysis is the per-file analysis payload produced by the ETL pipeline
type FileAnalysis struct {
	ID           string           `json:"id"`
	Filename     string           `json:"filename"`
	AnalysisDate string           `json:"analysisDate"`
	FileSize     int64            `json:"fileSize"`
	Metadata     AnalysisMetadata `json:"metadata"`
	Analysis     AnalysisDetail   `json:"analysis"`
}

// AnalysisMetadata describes the analyzed dataset's shape
type AnalysisMetadata struct {
	Rows      int64             `json:"rows"`
	Columns   int64             `json:"columns"`
	DataTypes map[string]string `json:"dataTypes"`
}

// AnalysisDetail carries the rendered analysis. Summary and visualization
// shapes vary per dataset, so they stay raw.
type AnalysisDetail struct {
	Summary        json.RawMessage   `json:"summary"`
	Visualizations []json.RawMessage `json:"visualizations"`
	Insights       []string          `json:"insights"`
}

// AnalyzedFiles lists the filenames with completed analyses. Safe to repeat.
func (c *Client) AnalyzedFiles(ctx context.Context) auth.Outcome[[]string] {
	return getJSON[[]string](c, ctx, "/api/analysis/files/", "analysis", "list")
}

// FileAnalysis fetches the analysis payload for one file. Safe to repeat.
func (c *Client) FileAnalysis(ctx context.Context, filename string) auth.Outcome[FileAnalysis] {
	path := "/api/analysis/files/" + url.PathEscape(filename)
	return getJSON[FileAnalysis](c, ctx, path, "analysis", "get")
}
