package chatapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/config"
	"github.com/joelkehle/competitor-analysis/internal/logger"
	"github.com/joelkehle/competitor-analysis/internal/render"
	"github.com/joelkehle/competitor-analysis/internal/session"
	"github.com/joelkehle/competitor-analysis/internal/telemetry"
)

// CatalogLister exposes the canonical competitor records.
type CatalogLister interface {
	List() []analysis.Competitor
}

// CatalogWriter is implemented by catalogs that accept new records.
type CatalogWriter interface {
	Add(c analysis.Competitor) error
}

type Options struct {
	Sessions  *session.Store
	Catalog   CatalogLister
	RateLimit config.RateLimitConfig
}

type Server struct {
	sessions *session.Store
	catalog  CatalogLister
	limiter  *rate.Limiter
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response       string                   `json:"response"`
	AnalysisResult *analysis.AnalysisResult `json:"analysisResult,omitempty"`
	Suggestions    []string                 `json:"suggestions"`
	SessionID      string                   `json:"session_id"`
}

type createSessionRequest struct {
	ProductInput *analysis.ProductInput `json:"productInput,omitempty"`
}

func NewServer(opts Options) http.Handler {
	s := &Server{sessions: opts.Sessions, catalog: opts.Catalog}
	if opts.RateLimit.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit.RPS), opts.RateLimit.Burst)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/chat", s.handleChat)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Get("/messages", s.handleMessages)
			r.Get("/analyses", s.handleAnalyses)
			r.Get("/analyses/{analysisID}", s.handleAnalysis)
			r.Post("/competitors", s.handleTrack)
		})
		r.Get("/competitors", s.handleCompetitors)
		r.Post("/competitors", s.handleAddCompetitor)
		r.Get("/enhancements", s.handleEnhancements)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	apiErr := toAPIError(err)
	if apiErr.Code == CodeRateLimited {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, apiErr.Status, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

// decodeBody treats an empty body as an empty JSON object.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return newValidationJSONError(err)
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).Round(time.Microsecond),
			"req_id":   chimiddleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, newError(CodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = session.DefaultID
	}

	_, span := telemetry.Tracer().Start(r.Context(), "chat.turn",
		trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	res, err := s.sessions.Turn(id, req.Message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Log.WithFields(logrus.Fields{"session": id, "error": err}).Warn("turn rejected")
		writeError(w, err)
		return
	}
	span.SetAttributes(attribute.String("chat.intent", string(res.Intent)))
	if res.Result != nil {
		span.SetAttributes(attribute.String("analysis.id", res.Result.ID))
	}
	logger.Log.WithFields(logrus.Fields{"session": id, "intent": res.Intent}).Debug("turn answered")

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       res.Message.Content,
		AnalysisResult: res.Result,
		Suggestions:    res.Suggestions,
		SessionID:      res.SessionID,
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.sessions.Create(req.ProductInput))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.sessions.Messages(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	list, err := s.sessions.Analyses(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": list})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	result, narrative, err := s.sessions.Analysis(chi.URLParam(r, "sessionID"), chi.URLParam(r, "analysisID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") != "html" {
		writeJSON(w, http.StatusOK, result)
		return
	}
	page, err := render.Document(result, narrative)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req session.TrackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := s.sessions.Track(chi.URLParam(r, "sessionID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	list := []analysis.Competitor{}
	if s.catalog != nil {
		list = s.catalog.List()
	}
	writeJSON(w, http.StatusOK, map[string]any{"competitors": list})
}

func (s *Server) handleAddCompetitor(w http.ResponseWriter, r *http.Request) {
	writer, ok := s.catalog.(CatalogWriter)
	if !ok {
		writeError(w, newError(CodeConflict, "competitor catalog is read-only"))
		return
	}
	var c analysis.Competitor
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	if err := writer.Add(c); err != nil {
		writeError(w, err)
		return
	}
	logger.Log.WithField("competitor", c.ID).Info("catalog record saved")
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleEnhancements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := analysis.FilterEnhancements(analysis.Enhancements(), analysis.EnhancementFilter{
		Priority: q.Get("priority"),
		Category: q.Get("category"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enhancements": list})
}
