package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apparchive "github.com/bryanwahyu/contract-review/internal/application/archive"
	appreview "github.com/bryanwahyu/contract-review/internal/application/review"
	"github.com/bryanwahyu/contract-review/internal/domain/archive"
	"github.com/bryanwahyu/contract-review/internal/domain/review"
	"github.com/bryanwahyu/contract-review/internal/middleware"
)

// Options tunes the HTTP surface. Zero values are usable.
type Options struct {
	MaxUploadBytes int64
	CORSOrigins    []string
	AccessKeys     map[string]string
	Limiter        *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	reviews   *appreview.Service
	archive   *apparchive.Service
	maxUpload int64
}

// NewRouter builds the API. archiveSvc may be nil when archiving is off.
func NewRouter(reviews *appreview.Service, archiveSvc *apparchive.Service, opts Options) http.Handler {
	r := &Router{reviews: reviews, archive: archiveSvc, maxUpload: opts.MaxUploadBytes}
	if r.maxUpload <= 0 {
		r.maxUpload = 20 << 20
	}
	limit := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		limit = opts.Limiter.RateLimit(middleware.WorkspaceKey)
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.AccessKeyAuth(opts.AccessKeys))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler(opts.Checkers))
	mux.Get("/metrics", middleware.MetricsHandler(reviews.Count))

	mux.Route("/v1/workspaces", func(rt chi.Router) {
		rt.With(limit).Post("/", r.wrap(r.handleOpen))

		rt.Route("/{id}", func(ws chi.Router) {
			ws.Use(requireWorkspaceID)
			ws.Get("/", r.wrap(r.handleSnapshot))
			ws.Delete("/", r.wrap(r.handleClose))
			ws.Put("/document", r.wrap(r.handleUpload))
			ws.With(limit).Post("/analysis", r.wrap(r.handleAnalyze))
			ws.Get("/analysis", r.wrap(r.handleReport))
			ws.With(limit).Post("/chat", r.wrap(r.handleChat))
			ws.Get("/chat", r.wrap(r.handleTranscript))
			ws.Get("/email", r.wrap(r.handleEmail))
		})
	})

	mux.Get("/v1/reports", r.wrap(r.handleReportList))
	mux.Get("/v1/reports/{reportID}", r.wrap(r.handleReportGet))

	return mux
}

// requireWorkspaceID answers 404 for ids that cannot name a workspace.
func requireWorkspaceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := middleware.ValidateWorkspaceID(chi.URLParam(req, "id")); err != nil {
			http.Error(w, review.ErrWorkspaceNotFound.Error(), http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, req)
	})
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// httpError carries a status chosen by the handler itself.
type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error { return &httpError{code: http.StatusBadRequest, msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			code, msg := statusFor(err)
			if code >= 500 {
				log.Printf("req_id=%s method=%s path=%s error=%v", chimw.GetReqID(req.Context()), req.Method, req.URL.Path, err)
			}
			http.Error(w, msg, code)
		}
	}
}

func statusFor(err error) (int, string) {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.code, he.msg
	case errors.Is(err, review.ErrWorkspaceNotFound), errors.Is(err, archive.ErrReportNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, review.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, review.ErrEmptyDocument),
		errors.Is(err, review.ErrUnreadableDocument),
		errors.Is(err, review.ErrEmptyMessage),
		errors.Is(err, review.ErrMissingCredential):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, review.ErrNoDocument),
		errors.Is(err, review.ErrNoAnalysis),
		errors.Is(err, review.ErrAlreadyAnalyzed),
		errors.Is(err, review.ErrAnalysisInFlight),
		errors.Is(err, review.ErrStale):
		return http.StatusConflict, err.Error()
	case errors.Is(err, review.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "model quota exceeded, please try again later"
	case errors.Is(err, review.ErrAnalysisFailed):
		return http.StatusBadGateway, "analysis failed, please try again"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/workspaces
// Body: {"api_key": "..."}; the key stays inside the workspace's model client.
func (r *Router) handleOpen(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(io.LimitReader(req.Body, 64<<10)).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	snap, err := r.reviews.Open(req.Context(), body.APIKey)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, snap)
}

// GET /v1/workspaces/{id}
func (r *Router) handleSnapshot(w http.ResponseWriter, req *http.Request) error {
	snap, err := r.reviews.Snapshot(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, snap)
}

// DELETE /v1/workspaces/{id}
func (r *Router) handleClose(w http.ResponseWriter, req *http.Request) error {
	if err := r.reviews.Close(chi.URLParam(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// PUT /v1/workspaces/{id}/document (multipart, field "file")
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)
	if err := req.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return &httpError{code: http.StatusRequestEntityTooLarge, msg: "file too large"}
		}
		return badRequest("expected multipart form with field \"file\"")
	}
	defer req.MultipartForm.RemoveAll()

	file, hdr, err := req.FormFile("file")
	if err != nil {
		return badRequest("missing form field \"file\"")
	}
	defer file.Close()

	name, err := middleware.ValidateFileName(hdr.Filename)
	if err != nil {
		return badRequest(err.Error())
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	snap, err := r.reviews.LoadDocument(req.Context(), chi.URLParam(req, "id"), name, hdr.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, snap)
}

// POST /v1/workspaces/{id}/analysis
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	done := middleware.TrackAnalysis()
	defer done()

	report, err := r.reviews.RunAnalysis(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		if errors.Is(err, review.ErrAnalysisFailed) {
			middleware.IncrementAnalysesFailed()
		}
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

// GET /v1/workspaces/{id}/analysis
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	report, err := r.reviews.Report(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

// POST /v1/workspaces/{id}/chat
// Body: {"message": "..."}
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(req.Body, 64<<10)).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	msg, err := middleware.ValidateMessage(body.Message)
	if err != nil {
		return badRequest(err.Error())
	}

	ex, err := r.reviews.SendChat(req.Context(), chi.URLParam(req, "id"), msg)
	if err != nil {
		return err
	}
	middleware.IncrementChats()
	if ex.User.Status == review.StatusFailed {
		middleware.IncrementChatsFailed()
	}
	return writeJSON(w, http.StatusOK, ex)
}

// GET /v1/workspaces/{id}/chat
func (r *Router) handleTranscript(w http.ResponseWriter, req *http.Request) error {
	msgs, err := r.reviews.Transcript(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// GET /v1/workspaces/{id}/email
func (r *Router) handleEmail(w http.ResponseWriter, req *http.Request) error {
	text, err := r.reviews.EmailDraft(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err = io.WriteString(w, text)
	return err
}

// GET /v1/reports?page=&page_size=
func (r *Router) handleReportList(w http.ResponseWriter, req *http.Request) error {
	if r.archive == nil {
		return &httpError{code: http.StatusNotFound, msg: "report archive is disabled"}
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.archive.List(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/reports/{reportID}
func (r *Router) handleReportGet(w http.ResponseWriter, req *http.Request) error {
	if r.archive == nil {
		return &httpError{code: http.StatusNotFound, msg: "report archive is disabled"}
	}
	rep, err := r.archive.Get(req.Context(), chi.URLParam(req, "reportID"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}
