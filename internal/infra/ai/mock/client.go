package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bryanwahyu/contract-review/internal/domain/review"
)

// DefaultAnalysis is returned as the first reply of every mock session.
const DefaultAnalysis = "```json\n" + `{"summary":"Mock review: the agreement follows most standard terms.","inconsistencies":["Net 45 payment terms vs required Net 30"],"redFlags":["Cyber liability $5M < $10M minimum"],"overallScore":62}` + "\n```"

// Factory returns offline models for local runs. Any non-blank credential is accepted.
type Factory struct {
	Analysis string
}

func (f Factory) NewModel(ctx context.Context, credential string) (review.Model, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, review.ErrMissingCredential
	}
	a := f.Analysis
	if a == "" {
		a = DefaultAnalysis
	}
	return &Model{analysis: a}, nil
}

type Model struct {
	analysis string
}

func (m *Model) StartSession(ctx context.Context) (review.Session, error) {
	return &session{analysis: m.analysis}, nil
}

type session struct {
	mu       sync.Mutex
	analysis string
	turns    int
}

func (s *session) Send(ctx context.Context, parts ...review.Part) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns++
	if s.turns == 1 {
		return s.analysis, nil
	}
	var q []string
	for _, p := range parts {
		if p.Document == nil {
			q = append(q, p.Text)
		}
	}
	return fmt.Sprintf("(mock reply %d) You asked: %s", s.turns-1, strings.Join(q, " ")), nil
}
