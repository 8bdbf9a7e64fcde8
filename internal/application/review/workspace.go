package review

import (
	"sync"
	"time"

	domain "github.com/bryanwahyu/contract-review/internal/domain/review"
)

// Workspace is the state of one browser session. Document, result, transcript
// and session always belong together: either all empty or all for the current
// document. generation is bumped on every document load so completions that
// started against an older document are dropped.
type Workspace struct {
	ID string

	model domain.Model

	mu         sync.Mutex
	doc        *domain.Document
	result     *domain.AnalysisResult
	transcript []*domain.ChatMessage
	session    domain.Session
	generation uint64
	analyzing  bool
	createdAt  time.Time
	lastSeen   time.Time
}

// Snapshot is a read-only copy of a workspace.
type Snapshot struct {
	ID         string               `json:"id"`
	Document   *domain.Document     `json:"document,omitempty"`
	Report     *domain.Report       `json:"report,omitempty"`
	Transcript []domain.ChatMessage `json:"transcript"`
	Analyzing  bool                 `json:"analyzing"`
	CanAnalyze bool                 `json:"can_analyze"`
	CanChat    bool                 `json:"can_chat"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ChatExchange is the outcome of one chat send.
type ChatExchange struct {
	User  domain.ChatMessage `json:"user"`
	Reply domain.ChatMessage `json:"reply"`
}

func newWorkspace(id string, model domain.Model, now time.Time) *Workspace {
	return &Workspace{ID: id, model: model, createdAt: now, lastSeen: now}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// loadDocument replaces the document and resets result, transcript and session.
func (w *Workspace) loadDocument(doc *domain.Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc = doc
	w.result = nil
	w.transcript = nil
	w.session = nil
	w.analyzing = false
	w.generation++
}

func (w *Workspace) beginAnalysis() (*domain.Document, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.doc == nil:
		return nil, 0, domain.ErrNoDocument
	case w.result != nil:
		return nil, 0, domain.ErrAlreadyAnalyzed
	case w.analyzing:
		return nil, 0, domain.ErrAnalysisInFlight
	}
	w.analyzing = true
	return w.doc, w.generation, nil
}

// abortAnalysis leaves the workspace as it was before beginAnalysis.
func (w *Workspace) abortAnalysis(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen == w.generation {
		w.analyzing = false
	}
}

func (w *Workspace) finishAnalysis(gen uint64, res domain.AnalysisResult, sess domain.Session, seed *domain.ChatMessage) (domain.Report, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return domain.Report{}, domain.ErrStale
	}
	w.analyzing = false
	w.result = &res
	w.session = sess
	w.transcript = []*domain.ChatMessage{seed}
	return domain.BuildReport(w.doc.Name, res), nil
}

// beginChat appends the user's message as pending before the model is called.
func (w *Workspace) beginChat(msg *domain.ChatMessage) (domain.Session, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil || w.session == nil {
		return nil, 0, domain.ErrNoAnalysis
	}
	w.transcript = append(w.transcript, msg)
	return w.session, w.generation, nil
}

func (w *Workspace) settleChat(gen uint64, user *domain.ChatMessage, reply *domain.ChatMessage, ok bool) (ChatExchange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return ChatExchange{}, domain.ErrStale
	}
	user.Settle(ok)
	w.transcript = append(w.transcript, reply)
	return ChatExchange{User: *user, Reply: *reply}, nil
}

func (w *Workspace) report() (domain.Report, *domain.AnalysisResult, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return domain.Report{}, nil, "", domain.ErrNoAnalysis
	}
	res := *w.result
	return domain.BuildReport(w.doc.Name, res), &res, w.doc.Name, nil
}

func (w *Workspace) messages() []domain.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyTranscript(w.transcript)
}

func (w *Workspace) snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		ID:         w.ID,
		Transcript: copyTranscript(w.transcript),
		Analyzing:  w.analyzing,
		CanAnalyze: w.doc != nil && w.result == nil && !w.analyzing,
		CanChat:    w.result != nil,
		CreatedAt:  w.createdAt,
	}
	if w.doc != nil {
		d := *w.doc
		s.Document = &d
	}
	if w.result != nil {
		r := domain.BuildReport(w.doc.Name, *w.result)
		s.Report = &r
	}
	return s
}

func copyTranscript(in []*domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(in))
	for _, m := range in {
		out = append(out, *m)
	}
	return out
}
