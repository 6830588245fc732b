// Package web serves the study UI: server-rendered templates swapped in
// as partials, with static assets cacheable offline by the service
// worker in static/sw.js.
package web

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/conorfennell/leitbox/internal/domain"
	"github.com/conorfennell/leitbox/internal/queue"
	"github.com/conorfennell/leitbox/internal/session"
	"github.com/conorfennell/leitbox/internal/storage"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
//
// All card mutations run under mu: the application is one logical writer
// over one shared collection, so a single lock is the whole concurrency
// story.
type Server struct {
	db         *storage.DB
	router     chi.Router
	templates  *template.Template
	queueLimit int
	now        func() time.Time

	mu   sync.Mutex
	sess *session.Session
	mode queue.Mode
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, queueLimit int) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		db:         db,
		router:     chi.NewRouter(),
		templates:  tpl,
		queueLimit: queueLimit,
		now:        time.Now,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create sub-filesystem for static assets: %v", err))
	}
	static := s.cachedStatic(staticFS)
	s.router.Handle("/static/*", http.StripPrefix("/static/", static))
	// The service worker must be served from the root so its scope
	// covers the whole app.
	s.router.Get("/sw.js", func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = "sw.js"
		static.ServeHTTP(w, r)
	})

	s.router.Get("/", s.handleIndex)
	s.router.Get("/deck", s.handleDeck)

	s.router.Get("/study/{mode}/next", s.handleStudyNext)
	s.router.Post("/study/reveal", s.handleReveal)
	s.router.Post("/study/rate", s.handleRate)

	s.router.Get("/browse", s.handleBrowse)
	s.router.Post("/cards", s.handleAddCard)
	s.router.Delete("/cards/{id}", s.handleDeleteCard)

	s.router.Post("/import", s.handleImport)
	s.router.Get("/export", s.handleExport)
}

// cachedStatic wraps a file server with cache headers and content-hash
// ETags so the service worker and browser cache can serve assets offline
// and revalidate cheaply.
func (s *Server) cachedStatic(staticFS fs.FS) http.Handler {
	etags := map[string]string{}
	fs.WalkDir(staticFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := fs.ReadFile(staticFS, path)
		if readErr != nil {
			return readErr
		}
		etags[path] = fmt.Sprintf(`"%x"`, sha256.Sum256(data))
		return nil
	})

	fileServer := http.FileServer(http.FS(staticFS))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if etag, ok := etags[r.URL.Path]; ok {
			w.Header().Set("ETag", etag)
			w.Header().Set("Cache-Control", "public, max-age=86400")
			if r.Header.Get("If-None-Match") == etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// loadCards is the read side of every handler.
func (s *Server) loadCards(w http.ResponseWriter) ([]domain.Card, bool) {
	cards, err := s.db.LoadAll()
	if err != nil {
		s.internalError(w, "failed to load cards", err)
		return nil, false
	}
	return cards, true
}

// invalidateSession drops the running study session. Called after any
// mutation of the card set outside the session itself (add, delete,
// import): the old queue may reference cards that no longer exist.
func (s *Server) invalidateSession() {
	s.sess = nil
}

func (s *Server) today() domain.Date {
	return domain.DateOf(s.now())
}
