package review

import "fmt"

// ScoreBand buckets the overall score for display.
type ScoreBand string

const (
	BandGreen ScoreBand = "green"
	BandAmber ScoreBand = "amber"
	BandRed   ScoreBand = "red"
)

// BandFor returns green for 80+, amber for 50-79, red below 50.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 80:
		return BandGreen
	case score >= 50:
		return BandAmber
	default:
		return BandRed
	}
}

// Card is one finding rendered as a list entry.
type Card struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Report is the view model of an analysis.
type Report struct {
	Document   string    `json:"document"`
	Summary    string    `json:"summary"`
	Score      int       `json:"score"`
	Badge      string    `json:"badge"`
	Band       ScoreBand `json:"band"`
	RedFlags   []Card    `json:"red_flags"`
	Deviations []Card    `json:"deviations"`
}

// BuildReport renders an analysis for the given document name.
func BuildReport(documentName string, res AnalysisResult) Report {
	return Report{
		Document:   documentName,
		Summary:    res.Summary,
		Score:      res.OverallScore,
		Badge:      fmt.Sprintf("%d/100", res.OverallScore),
		Band:       BandFor(res.OverallScore),
		RedFlags:   cards(res.RedFlags),
		Deviations: cards(res.Inconsistencies),
	}
}

func cards(items []string) []Card {
	out := make([]Card, 0, len(items))
	for i, it := range items {
		out = append(out, Card{Index: i + 1, Text: it})
	}
	return out
}

// SeedMessage is the assistant's opening line once analysis succeeds.
func SeedMessage(res AnalysisResult) string {
	return fmt.Sprintf("Analysis complete. I found %d inconsistencies and %d red flags. Ask me anything about this contract.",
		len(res.Inconsistencies), len(res.RedFlags))
}

// ApologyMessage replaces a chat reply that never arrived.
const ApologyMessage = "Sorry, I ran into a problem answering that. Please try again."
