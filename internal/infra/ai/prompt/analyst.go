package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/contract-review/internal/domain/review"
)

// GetSystemPrompt provides strict directions and the schema for the first reply.
func GetSystemPrompt() string {
	return `You are a senior procurement and legal analyst. You review vendor contracts on behalf of our organization and compare them clause by clause against our Standard Terms.

Requirements for your first answer:
- Output one valid JSON object only (no markdown, no commentary). Do not include code fences.
- "summary": two to four sentences describing the deal and its overall alignment with the Standard Terms.
- "inconsistencies": every clause that deviates from the Standard Terms, one concise sentence each, quoting the contract value and the required value.
- "redFlags": only deviations the Standard Terms mark as high severity (liability caps, insurance minimums, data protection, indemnification, IP ownership, termination rights). A red flag may also appear in inconsistencies.
- "overallScore": an integer from 1 to 100 where 100 means fully compliant.
- Use empty arrays when nothing is found. Never omit a key.

Schema (example with empty values):
{
  "summary": "<string>",
  "inconsistencies": ["<string>"],
  "redFlags": ["<string>"],
  "overallScore": 0
}

After the first answer, reply to follow-up questions in plain prose. Refer to specific clauses of the contract and of the Standard Terms when you can.`
}

// GetComparisonInstruction is the closing instruction of the first message.
func GetComparisonInstruction() string {
	return "Compare the attached contract against the Standard Terms above and respond with the JSON object per schema."
}

// AnalysisParts builds the single outbound message of an analysis run:
// instructions and standard terms, the document, then the comparison instruction.
func AnalysisParts(doc review.DocumentPart) []review.Part {
	var b strings.Builder
	b.WriteString(GetSystemPrompt())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("=== STANDARD TERMS ===\n%s\n=== END STANDARD TERMS ===", strings.TrimSpace(StandardTerms)))
	return []review.Part{
		review.TextPart(b.String()),
		review.DocPart(doc),
		review.TextPart(GetComparisonInstruction()),
	}
}
