package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/contract-review/internal/application"
	domain "github.com/bryanwahyu/contract-review/internal/domain/review"
	"github.com/bryanwahyu/contract-review/internal/infra/ai/prompt"
)

// Archiver records completed analyses. Optional.
type Archiver interface {
	Record(ctx context.Context, workspaceID string, doc *domain.Document, res domain.AnalysisResult) error
}

// Service owns all workspaces and implements the review use cases.
// Service is safe for concurrent use.
type Service struct {
	Models  domain.ModelFactory
	PDF     domain.PDFInspector
	Archive Archiver
	Clock   application.Clock
	IdleTTL time.Duration

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

//
// ==== WORKSPACES ====
//

// Open creates a workspace bound to the user's credential. The credential lives
// only inside the model client and is never stored or returned.
func (s *Service) Open(ctx context.Context, credential string) (Snapshot, error) {
	if strings.TrimSpace(credential) == "" {
		return Snapshot{}, domain.ErrMissingCredential
	}
	model, err := s.Models.NewModel(ctx, credential)
	if err != nil {
		return Snapshot{}, fmt.Errorf("init model: %w", err)
	}

	ws := newWorkspace(uuid.New().String(), model, s.Clock.Now())

	s.mu.Lock()
	if s.workspaces == nil {
		s.workspaces = make(map[string]*Workspace)
	}
	s.workspaces[ws.ID] = ws
	s.mu.Unlock()

	log.Printf("workspace opened: id=%s", ws.ID)
	return ws.snapshot(), nil
}

// Close discards a workspace and everything it holds.
func (s *Service) Close(id string) error {
	s.mu.Lock()
	ws, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	closeModel(ws)
	log.Printf("workspace closed: id=%s", id)
	return nil
}

// Sweep discards workspaces idle for longer than IdleTTL and returns how many went.
func (s *Service) Sweep(now time.Time) int {
	if s.IdleTTL <= 0 {
		return 0
	}
	var expired []*Workspace
	s.mu.Lock()
	for id, ws := range s.workspaces {
		if now.Sub(ws.idleSince()) > s.IdleTTL {
			expired = append(expired, ws)
			delete(s.workspaces, id)
		}
	}
	s.mu.Unlock()

	for _, ws := range expired {
		closeModel(ws)
		log.Printf("workspace expired: id=%s", ws.ID)
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.Clock.Now())
		}
	}
}

// Shutdown discards every workspace and returns how many there were.
func (s *Service) Shutdown() int {
	s.mu.Lock()
	all := s.workspaces
	s.workspaces = nil
	s.mu.Unlock()
	for _, ws := range all {
		closeModel(ws)
	}
	return len(all)
}

// Count returns the number of live workspaces.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

func (s *Service) get(id string) (*Workspace, error) {
	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	ws.touch(s.Clock.Now())
	return ws, nil
}

// Snapshot returns the current state of a workspace.
func (s *Service) Snapshot(id string) (Snapshot, error) {
	ws, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return ws.snapshot(), nil
}

//
// ==== USE CASES ====
//

// LoadDocument validates an upload and makes it the workspace's document.
// Rejected uploads leave the workspace untouched.
func (s *Service) LoadDocument(ctx context.Context, id, name, mediaType string, data []byte) (Snapshot, error) {
	ws, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	doc, err := domain.NewDocument(name, mediaType, data, s.Clock.Now())
	if err != nil {
		return Snapshot{}, err
	}
	if doc.MediaType == domain.MediaTypePDF && s.PDF != nil {
		pages, err := s.PDF.PageCount(doc.Data)
		if err != nil {
			log.Printf("workspace=%s rejected pdf %q: %v", id, doc.Name, err)
			return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
		}
		doc.Pages = pages
	}

	ws.loadDocument(doc)
	log.Printf("workspace=%s document loaded: name=%q type=%s bytes=%d", id, doc.Name, doc.MediaType, doc.Size)
	return ws.snapshot(), nil
}

// RunAnalysis sends the document to a fresh model session and parses the reply.
// On any failure the workspace is left as it was.
func (s *Service) RunAnalysis(ctx context.Context, id string) (domain.Report, error) {
	ws, err := s.get(id)
	if err != nil {
		return domain.Report{}, err
	}
	doc, gen, err := ws.beginAnalysis()
	if err != nil {
		return domain.Report{}, err
	}

	// jalan sampai selesai walaupun client putus
	ctx = context.WithoutCancel(ctx)
	start := s.Clock.Now()

	res, sess, err := s.analyze(ctx, ws.model, doc)
	if err != nil {
		ws.abortAnalysis(gen)
		log.Printf("workspace=%s analysis failed: document=%q err=%v", id, doc.Name, err)
		return domain.Report{}, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}

	seed := s.newMessage(domain.RoleAssistant, domain.SeedMessage(res), domain.StatusDelivered)
	report, err := ws.finishAnalysis(gen, res, sess, seed)
	if err != nil {
		log.Printf("workspace=%s analysis discarded: document=%q replaced", id, doc.Name)
		return domain.Report{}, err
	}
	log.Printf("workspace=%s analysis done: document=%q score=%d inconsistencies=%d red_flags=%d duration=%s",
		id, doc.Name, res.OverallScore, len(res.Inconsistencies), len(res.RedFlags), s.Clock.Now().Sub(start))

	if s.Archive != nil {
		if err := s.Archive.Record(ctx, id, doc, res); err != nil {
			log.Printf("workspace=%s archive failed: %v", id, err)
		}
	}
	return report, nil
}

func (s *Service) analyze(ctx context.Context, model domain.Model, doc *domain.Document) (domain.AnalysisResult, domain.Session, error) {
	part, err := domain.EncodeDocument(doc)
	if err != nil {
		return domain.AnalysisResult{}, nil, err
	}
	sess, err := model.StartSession(ctx)
	if err != nil {
		return domain.AnalysisResult{}, nil, fmt.Errorf("start session: %w", err)
	}
	reply, err := sess.Send(ctx, prompt.AnalysisParts(part)...)
	if err != nil {
		return domain.AnalysisResult{}, nil, err
	}
	res, err := domain.ParseAnalysis(reply)
	if err != nil {
		return domain.AnalysisResult{}, nil, err
	}
	return res, sess, nil
}

// SendChat appends the user's message right away, sends it on the workspace
// session and appends the reply. A failed send appends the apology instead;
// that is not an error for the caller.
func (s *Service) SendChat(ctx context.Context, id, text string) (ChatExchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatExchange{}, domain.ErrEmptyMessage
	}
	ws, err := s.get(id)
	if err != nil {
		return ChatExchange{}, err
	}

	user := s.newMessage(domain.RoleUser, text, domain.StatusPending)
	sess, gen, err := ws.beginChat(user)
	if err != nil {
		return ChatExchange{}, err
	}

	reply, sendErr := sess.Send(context.WithoutCancel(ctx), domain.TextPart(text))
	var answer *domain.ChatMessage
	if sendErr != nil {
		log.Printf("workspace=%s chat failed: %v", id, sendErr)
		answer = s.newMessage(domain.RoleAssistant, domain.ApologyMessage, domain.StatusFailed)
	} else {
		answer = s.newMessage(domain.RoleAssistant, reply, domain.StatusDelivered)
	}
	return ws.settleChat(gen, user, answer, sendErr == nil)
}

// Transcript returns the ordered chat transcript.
func (s *Service) Transcript(id string) ([]domain.ChatMessage, error) {
	ws, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return ws.messages(), nil
}

// Report returns the rendered analysis of the current document.
func (s *Service) Report(id string) (domain.Report, error) {
	ws, err := s.get(id)
	if err != nil {
		return domain.Report{}, err
	}
	r, _, _, err := ws.report()
	return r, err
}

// EmailDraft renders the negotiation email for the current analysis.
func (s *Service) EmailDraft(id string) (string, error) {
	ws, err := s.get(id)
	if err != nil {
		return "", err
	}
	_, res, name, err := ws.report()
	if err != nil {
		return "", err
	}
	return domain.DraftEmail(*res, name), nil
}

func (s *Service) newMessage(role domain.Role, text string, status domain.MessageStatus) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Status:    status,
		CreatedAt: s.Clock.Now(),
	}
}

func closeModel(ws *Workspace) {
	if c, ok := ws.model.(io.Closer); ok {
		if err := c.Close(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("workspace=%s close model: %v", ws.ID, err)
		}
	}
}
