package review

import "context"

// Session is an ongoing conversation with the model. Every Send sees the
// history of earlier sends on the same session.
type Session interface {
	Send(ctx context.Context, parts ...Part) (string, error)
}

// Model starts sessions with empty history.
type Model interface {
	StartSession(ctx context.Context) (Session, error)
}

// ModelFactory builds a Model bound to one user-supplied credential.
type ModelFactory interface {
	NewModel(ctx context.Context, credential string) (Model, error)
}

// PDFInspector validates a PDF and reports its page count.
type PDFInspector interface {
	PageCount(data []byte) (int, error)
}
