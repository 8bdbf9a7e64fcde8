package review

import "errors"

// Input errors. These never reach the model.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type (allowed: application/pdf, text/plain)")
	ErrEmptyDocument        = errors.New("document is empty")
	ErrUnreadableDocument   = errors.New("document could not be read")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrMissingCredential    = errors.New("api key is required")
)

// State errors.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrNoDocument        = errors.New("no document loaded")
	ErrNoAnalysis        = errors.New("no analysis available")
	ErrAlreadyAnalyzed   = errors.New("document already analyzed")
	ErrAnalysisInFlight  = errors.New("analysis already running")
	ErrStale             = errors.New("document replaced while request was running")
)

// Model boundary errors.
var (
	// ErrAnalysisFailed wraps every failure of the analysis cycle.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrMalformedReply means the first reply was not a complete analysis object.
	ErrMalformedReply = errors.New("malformed analysis reply")
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
)
