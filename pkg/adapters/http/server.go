package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/protostate"
	"github.com/aretw0/protostate/internal/logging"
	"github.com/aretw0/protostate/internal/presentation/graph"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/editor"
	"github.com/aretw0/protostate/pkg/protocol"
	"github.com/aretw0/protostate/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes document editors over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStreams shares a StreamManager, typically one whose Host adapters
// were handed to the session's editors.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewHandler creates a new HTTP handler for the documents of sessions.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(server.logger)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", server.ListDocuments)
		r.Route("/{doc}", func(r chi.Router) {
			r.Get("/", server.GetDocument)
			r.Delete("/", server.DeleteDocument)
			r.Get("/graph", server.GetGraph)
			r.Get("/events", server.SubscribeEvents)

			r.Put("/states", server.SaveState)
			r.Delete("/states/{state}", server.RemoveState)
			r.Put("/initial", server.SetInitial)
			r.Post("/send/{event}", server.Send)
			r.Post("/reset", server.Reset)

			r.Post("/bindings", server.AddBinding)
			r.Put("/bindings/{node}/{property}", server.SetExpression)
			r.Delete("/bindings/{node}/{property}", server.RemoveBinding)
			r.Post("/preview", server.Preview)
			r.Put("/ui", server.SetSectionExpanded)

			r.Post("/messages", server.HandleMessage)
			r.Post("/select/{node}", server.SelectNode)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "protostate-http",
		"version": strings.TrimSpace(protostate.Version),
	})
}

// ListDocuments handles the GET /documents request.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

// GetDocument handles the GET /documents/{doc} request.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	e, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "doc"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e.View())
}

// DeleteDocument handles the DELETE /documents/{doc} request.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "doc")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles the GET /documents/{doc}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	e, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "doc"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap := e.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(snap.Machine, &graph.GraphOverlay{CurrentState: snap.Current})))
}

// SubscribeEvents handles the GET /documents/{doc}/events request (SSE).
// Every change made through this server is pushed as the new document view,
// and host-bound messages as HostEvent events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	doc := chi.URLParam(r, "doc")
	// Subscribe first so messages sent while the editor starts are delivered.
	ch, cancel := s.Streams.Subscribe(doc)
	defer cancel()

	e, err := s.Sessions.Open(r.Context(), doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	initial, err := json.Marshal(e.View())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.Streams.serveStream(w, r, doc, ch, string(initial))
}

type saveStateRequest struct {
	Original string `json:"original"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

// SaveState handles the PUT /documents/{doc}/states request.
func (s *Server) SaveState(w http.ResponseWriter, r *http.Request) {
	var body saveStateRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		return nil, e.SaveState(ctx, body.Original, body.Name, body.Text)
	})
}

// RemoveState handles the DELETE /documents/{doc}/states/{state} request.
func (s *Server) RemoveState(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "state")
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		return nil, e.RemoveState(ctx, name)
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

// SetInitial handles the PUT /documents/{doc}/initial request.
func (s *Server) SetInitial(w http.ResponseWriter, r *http.Request) {
	var body nameRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		e.SetInitial(ctx, body.Name)
		return nil, nil
	})
}

// Send handles the POST /documents/{doc}/send/{event} request.
func (s *Server) Send(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		tr, err := e.Send(ctx, event)
		return tr, err
	})
}

// Reset handles the POST /documents/{doc}/reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		e.Reset(ctx)
		return nil, nil
	})
}

// AddBinding handles the POST /documents/{doc}/bindings request.
func (s *Server) AddBinding(w http.ResponseWriter, r *http.Request) {
	var node domain.Node
	if !s.decode(w, r, &node) {
		return
	}
	if node.ID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "node id is required"})
		return
	}
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		return nil, e.AddBinding(ctx, node)
	})
}

type expressionRequest struct {
	Expression string `json:"expression"`
}

// SetExpression handles the PUT /documents/{doc}/bindings/{node}/{property} request.
func (s *Server) SetExpression(w http.ResponseWriter, r *http.Request) {
	var body expressionRequest
	if !s.decode(w, r, &body) {
		return
	}
	node, property := chi.URLParam(r, "node"), domain.Property(chi.URLParam(r, "property"))
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		return nil, e.SetExpression(ctx, node, property, body.Expression)
	})
}

// RemoveBinding handles the DELETE /documents/{doc}/bindings/{node}/{property} request.
func (s *Server) RemoveBinding(w http.ResponseWriter, r *http.Request) {
	node, property := chi.URLParam(r, "node"), domain.Property(chi.URLParam(r, "property"))
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		return nil, e.RemoveBinding(ctx, node, property)
	})
}

type previewResponse struct {
	Value   any  `json:"value"`
	Defined bool `json:"defined"`
}

// Preview handles the POST /documents/{doc}/preview request.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	var body expressionRequest
	if !s.decode(w, r, &body) {
		return
	}
	e, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "doc"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	value, ok := e.Preview(body.Expression)
	if !ok {
		value = nil
	}
	s.writeJSON(w, http.StatusOK, previewResponse{Value: value, Defined: ok})
}

type sectionRequest struct {
	Expanded bool `json:"isUISectionExpanded"`
}

// SetSectionExpanded handles the PUT /documents/{doc}/ui request.
func (s *Server) SetSectionExpanded(w http.ResponseWriter, r *http.Request) {
	var body sectionRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		e.SetSectionExpanded(ctx, body.Expanded)
		return nil, nil
	})
}

// HandleMessage handles the POST /documents/{doc}/messages request.
// The body is a host message, bare or wrapped in the plugin envelope.
func (s *Server) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if !s.decode(w, r, &raw) {
		return
	}
	msg, err := protocol.Decode(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.mutate(w, r, func(ctx context.Context, e *editor.Editor) (any, error) {
		e.HandleMessage(ctx, msg)
		return nil, nil
	})
}

// SelectNode handles the POST /documents/{doc}/select/{node} request.
// The SELECT_NODE message reaches the host through the document stream.
func (s *Server) SelectNode(w http.ResponseWriter, r *http.Request) {
	e, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "doc"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	e.SelectNode(r.Context(), chi.URLParam(r, "node"))
	w.WriteHeader(http.StatusAccepted)
}

type mutationResponse struct {
	Result any         `json:"result,omitempty"`
	View   editor.View `json:"view"`
}

// mutate runs fn under the document lock, then broadcasts and returns the new view.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, *editor.Editor) (any, error)) {
	doc := chi.URLParam(r, "doc")

	var resp mutationResponse
	err := s.Sessions.WithLock(r.Context(), doc, func(ctx context.Context, e *editor.Editor) error {
		result, err := fn(ctx, e)
		if err != nil {
			return err
		}
		resp.Result = result
		resp.View = e.View()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if bytes, err := json.Marshal(resp.View); err == nil {
		s.Streams.Broadcast(doc, string(bytes))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStateNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrBindingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnresolvedTarget),
		errors.Is(err, domain.ErrGuardRejected),
		errors.Is(err, domain.ErrAlreadyBound):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
