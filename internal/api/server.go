package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/render"
	"github.com/Kerhoff/WishDesk/internal/service"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "wishdesk_session"

// Server serves the operator console: the HTML form, its JSON twin and the
// metrics endpoint. Each visitor gets their own session, keyed by cookie.
type Server struct {
	svc      *service.Service
	sessions *service.Sessions
	logger   *logrus.Logger
	gatherer prometheus.Gatherer
	mux      *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it. A nil
// gatherer disables /metrics.
func NewServer(svc *service.Service, sessions *service.Sessions, logger *logrus.Logger, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		svc:      svc,
		sessions: sessions,
		logger:   logger,
		gatherer: gatherer,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /actions/{action}", s.handleFormAction)

	s.mux.HandleFunc("GET /api/form", s.handleGetForm)
	s.mux.HandleFunc("POST /api/actions/{action}", s.handleAPIAction)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	// Numbers keep their exact text: ids like 12345678 must not become 1.2345678e+07.
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// session returns the caller's session, issuing a cookie on first visit.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *service.Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return s.sessions.Get(c.Value)
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.sessions.Get(id)
}

// pathAction extracts the {action} path value. It writes a 404 and returns
// false when the action is unknown.
func (s *Server) pathAction(w http.ResponseWriter, r *http.Request) (service.Action, bool) {
	action := service.Action(r.PathValue("action"))
	if !s.svc.Supports(action) {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("unknown action %q", action))
		return "", false
	}
	return action, true
}

// ---------------------------------------------------------------------------
// HTML console
// ---------------------------------------------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	s.renderPage(w, http.StatusOK, session.Form(), flashMessage(session), session.Table())
}

func (s *Server) handleFormAction(w http.ResponseWriter, r *http.Request) {
	action, ok := s.pathAction(w, r)
	if !ok {
		return
	}
	session := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	// An unchecked box is missing from the post and reads as false.
	in := form.New()
	for _, name := range form.AllFields {
		in.Write(name, r.PostForm.Get(name))
	}

	out := session.Do(r.Context(), s.svc, action, in)
	table := out.Table
	if table == nil {
		table = session.Table()
	}
	s.renderPage(w, http.StatusOK, out.Form, out.Flash, table)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, state form.State, flash string, table *render.Table) {
	data, err := pageData(state, flash, table)
	if err != nil {
		s.logger.WithError(err).Error("failed to build page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("failed to execute index template")
	}
}

// ---------------------------------------------------------------------------
// JSON console
// ---------------------------------------------------------------------------

type actionRequest struct {
	Fields map[string]any `json:"fields"`
}

type formResponse struct {
	Form  form.State    `json:"form"`
	Flash string        `json:"flash"`
	Table *render.Table `json:"table,omitempty"`
	Error bool          `json:"error,omitempty"`
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	s.respondJSON(w, http.StatusOK, formResponse{
		Form:  session.Form(),
		Flash: flashMessage(session),
		Table: session.Table(),
	})
}

func (s *Server) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	action, ok := s.pathAction(w, r)
	if !ok {
		return
	}

	session := s.session(w, r)

	var req actionRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	in := form.New()
	for name, value := range req.Fields {
		if !form.IsKnown(name) {
			continue
		}
		in.Write(name, value)
	}

	out := session.Do(r.Context(), s.svc, action, in)
	s.respondJSON(w, http.StatusOK, formResponse{
		Form:  out.Form,
		Flash: out.Flash,
		Table: out.Table,
		Error: out.Failed(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Healthy"})
}

func flashMessage(session *service.Session) string {
	if f, ok := session.Flash().(*form.Flash); ok {
		return f.Message()
	}
	return ""
}
