package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFence removes a surrounding ``` or ```json fence from a model reply.
// Unfenced input comes back trimmed and otherwise untouched.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string (json, JSON, ...) up to the first newline
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// wire shape; pointers so a missing key is distinguishable from a zero value
type analysisReply struct {
	Summary         *string   `json:"summary"`
	Inconsistencies *[]string `json:"inconsistencies"`
	RedFlags        *[]string `json:"redFlags"`
	OverallScore    *int      `json:"overallScore"`
}

// ParseAnalysis decodes the first model reply into an AnalysisResult. The reply
// is rejected as a whole when it is not exactly one JSON object, misses a key,
// carries a null, blank or mistyped value, or scores outside 1-100.
func ParseAnalysis(reply string) (AnalysisResult, error) {
	raw := StripCodeFence(reply)
	if raw == "" {
		return AnalysisResult{}, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}

	var r analysisReply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var missing []string
	if r.Summary == nil {
		missing = append(missing, "summary")
	}
	if r.Inconsistencies == nil {
		missing = append(missing, "inconsistencies")
	}
	if r.RedFlags == nil {
		missing = append(missing, "redFlags")
	}
	if r.OverallScore == nil {
		missing = append(missing, "overallScore")
	}
	if len(missing) > 0 {
		return AnalysisResult{}, fmt.Errorf("%w: missing %s", ErrMalformedReply, strings.Join(missing, ", "))
	}
	if err := checkItems("inconsistencies", *r.Inconsistencies); err != nil {
		return AnalysisResult{}, err
	}
	if err := checkItems("redFlags", *r.RedFlags); err != nil {
		return AnalysisResult{}, err
	}
	if *r.OverallScore < 1 || *r.OverallScore > 100 {
		return AnalysisResult{}, fmt.Errorf("%w: overallScore %d out of range 1-100", ErrMalformedReply, *r.OverallScore)
	}

	return AnalysisResult{
		Summary:         *r.Summary,
		Inconsistencies: *r.Inconsistencies,
		RedFlags:        *r.RedFlags,
		OverallScore:    *r.OverallScore,
	}, nil
}

// null list elements decode to "", so blank covers both
func checkItems(key string, items []string) error {
	for i, it := range items {
		if strings.TrimSpace(it) == "" {
			return fmt.Errorf("%w: %s[%d] is empty", ErrMalformedReply, key, i)
		}
	}
	return nil
}
