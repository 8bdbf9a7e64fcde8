package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/contract-review/internal/domain/review"
	"github.com/bryanwahyu/contract-review/internal/infra/document"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 2048
)

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Factory builds per-credential OpenAI models.
type Factory struct {
	Model     string
	BaseURL   string
	MaxTokens int
}

func (f Factory) NewModel(ctx context.Context, apiKey string) (review.Model, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, review.ErrMissingCredential
	}
	cfg := openai.DefaultConfig(apiKey)
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: f.Model, maxTokens: f.MaxTokens}, nil
}

// Client is a review.Model backed by the chat completions API.
type Client struct {
	api       completer
	model     string
	maxTokens int
}

func (c *Client) StartSession(ctx context.Context) (review.Session, error) {
	return &session{client: c}, nil
}

// session keeps the conversation locally; the API itself is stateless.
type session struct {
	client  *Client
	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

func (s *session) Send(ctx context.Context, parts ...review.Part) (string, error) {
	content, err := renderParts(parts)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: content}
	msgs := make([]openai.ChatCompletionMessage, 0, len(s.history)+1)
	msgs = append(msgs, s.history...)
	msgs = append(msgs, user)

	model := s.client.model
	if model == "" {
		model = defaultModel
	}
	maxTokens := s.client.maxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	}
	// only the opening exchange must be a JSON object
	if len(s.history) == 0 {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := s.client.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", mapError(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned empty choices")
	}
	reply := resp.Choices[0].Message.Content

	s.history = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	return reply, nil
}

// renderParts flattens parts into one user message. Documents are inlined as text.
func renderParts(parts []review.Part) (string, error) {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if p.Document == nil {
			b.WriteString(p.Text)
			continue
		}
		text, err := documentText(*p.Document)
		if err != nil {
			return "", err
		}
		b.WriteString("=== CONTRACT DOCUMENT ===\n")
		b.WriteString(text)
		b.WriteString("\n=== END CONTRACT DOCUMENT ===")
	}
	return b.String(), nil
}

func documentText(p review.DocumentPart) (string, error) {
	raw, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("decode document part: %w", err)
	}
	switch p.MediaType {
	case review.MediaTypeText:
		return document.SanitizeText(string(raw)), nil
	case review.MediaTypePDF:
		text, err := document.ExtractText(raw)
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", fmt.Errorf("no extractable text found in PDF")
		}
		return text, nil
	}
	return "", review.ErrUnsupportedMediaType
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", review.ErrQuotaExceeded, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", review.ErrQuotaExceeded, err)
	}
	return err
}
