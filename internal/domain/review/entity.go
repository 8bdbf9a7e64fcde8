package review

import "time"

// Media types accepted for upload
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeText = "text/plain"
)

// Document is an uploaded contract held in memory for one workspace.
type Document struct {
	Name      string    `json:"name"`
	MediaType string    `json:"media_type"`
	Size      int64     `json:"size"`
	Pages     int       `json:"pages,omitempty"`
	SHA256    string    `json:"sha256"`
	LoadedAt  time.Time `json:"loaded_at"`
	Data      []byte    `json:"-"`
}

// DocumentPart is a document encoded for transport to the model.
type DocumentPart struct {
	MediaType string
	Data      string // base64, std encoding
}

// Part is one piece of an outbound model message: text or document, never both.
type Part struct {
	Text     string
	Document *DocumentPart
}

func TextPart(s string) Part { return Part{Text: s} }

func DocPart(d DocumentPart) Part { return Part{Document: &d} }

// AnalysisResult is the structured outcome of the first model exchange.
type AnalysisResult struct {
	Summary         string   `json:"summary"`
	Inconsistencies []string `json:"inconsistencies"`
	RedFlags        []string `json:"redFlags"`
	OverallScore    int      `json:"overallScore"`
}

// Role enum
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageStatus tracks a chat message from send to settle.
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusDelivered MessageStatus = "delivered"
	StatusFailed    MessageStatus = "failed"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Text      string        `json:"text"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Settle moves a pending message to delivered or failed. Settled messages don't change.
func (m *ChatMessage) Settle(ok bool) {
	if m.Status != StatusPending {
		return
	}
	if ok {
		m.Status = StatusDelivered
	} else {
		m.Status = StatusFailed
	}
}
