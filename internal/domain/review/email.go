package review

import "strings"

const noneIdentified = "None identified."

// DraftEmail renders a negotiation email to the vendor from an analysis.
func DraftEmail(res AnalysisResult, documentName string) string {
	if documentName == "" {
		documentName = "the contract"
	}

	var b strings.Builder
	b.WriteString("Subject: Contract Review Feedback - " + documentName + "\n\n")
	b.WriteString("Hello,\n\n")
	b.WriteString("Thank you for sending over " + documentName + ". We have reviewed it against our standard terms and would like to resolve the points below before moving forward.\n\n")

	b.WriteString("Summary:\n")
	b.WriteString(strings.TrimSpace(res.Summary) + "\n\n")

	b.WriteString("Critical Issues (Red Flags):\n")
	writeList(&b, res.RedFlags)
	b.WriteString("\n")

	b.WriteString("Deviations from Standard Terms:\n")
	writeList(&b, res.Inconsistencies)
	b.WriteString("\n")

	b.WriteString("Please send a revised draft addressing these items, or let us know a convenient time to discuss them.\n\n")
	b.WriteString("Best regards,\n")
	b.WriteString("Procurement Team\n")
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString(noneIdentified + "\n")
		return
	}
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
}
