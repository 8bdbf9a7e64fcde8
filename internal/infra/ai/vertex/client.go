package vertex

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/bryanwahyu/contract-review/internal/domain/review"
)

const defaultModel = "gemini-1.5-pro"

// Factory builds Gemini models on Vertex AI. The credential is an OAuth access token.
type Factory struct {
	ProjectID string
	Region    string
	Model     string
}

func (f Factory) NewModel(ctx context.Context, accessToken string) (review.Model, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, review.ErrMissingCredential
	}
	if f.ProjectID == "" || f.Region == "" {
		return nil, fmt.Errorf("vertex: projectID and region cannot be empty")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client, err := genai.NewClient(ctx, f.ProjectID, f.Region, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	name := f.Model
	if name == "" {
		name = defaultModel
	}
	m := client.GenerativeModel(name)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	return &Client{base: client, model: m}, nil
}

// Client is a review.Model backed by a Gemini generative model.
type Client struct {
	base  *genai.Client
	model *genai.GenerativeModel
}

// StartSession opens a chat with empty history. The system instruction is sent
// inside the first message, not configured on the model.
func (c *Client) StartSession(ctx context.Context) (review.Session, error) {
	cs := c.model.StartChat()
	return &session{chat: cs, send: cs.SendMessage}, nil
}

func (c *Client) Close() error {
	if c.base != nil {
		return c.base.Close()
	}
	return nil
}

type session struct {
	mu   sync.Mutex
	chat *genai.ChatSession
	send func(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error)
}

func (s *session) Send(ctx context.Context, parts ...review.Part) (string, error) {
	gparts, err := toGenaiParts(parts)
	if err != nil {
		return "", err
	}

	// ChatSession appends the user turn before calling the API and keeps it
	// on error, so a failed exchange is cut back out of the history.
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.chat.History)

	resp, err := s.send(ctx, gparts...)
	if err != nil {
		s.chat.History = s.chat.History[:n]
		return "", fmt.Errorf("failed to generate content from gemini: %w", mapError(err))
	}
	text := extractText(resp)
	if text == "" {
		s.chat.History = s.chat.History[:n]
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func toGenaiParts(parts []review.Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Document == nil {
			out = append(out, genai.Text(p.Text))
			continue
		}
		raw, err := p.Document.Bytes()
		if err != nil {
			return nil, fmt.Errorf("decode document part: %w", err)
		}
		out = append(out, genai.Blob{MIMEType: p.Document.MediaType, Data: raw})
	}
	return out, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}

func mapError(err error) error {
	e := strings.ToLower(err.Error())
	if strings.Contains(e, "resourceexhausted") || strings.Contains(e, "resource exhausted") || strings.Contains(e, "quota") || strings.Contains(e, "429") {
		return fmt.Errorf("%w: %v", review.ErrQuotaExceeded, err)
	}
	return err
}
