package archive

import "time"

// ReportID identifier type
type ReportID string

// Report is a completed analysis kept for auditing and retrieval. It never
// carries the user's credential or the chat transcript.
type Report struct {
	ID             ReportID  `json:"id"`
	WorkspaceID    string    `json:"workspace_id"`
	DocumentName   string    `json:"document_name"`
	MediaType      string    `json:"media_type"`
	DocumentSHA256 string    `json:"document_sha256"`
	DocumentURL    string    `json:"document_url,omitempty"`
	Score          int       `json:"score"`
	Result         string    `json:"result"` // AnalysisResult as JSON
	CreatedAt      time.Time `json:"created_at"`
}

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data     []*Report `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}
