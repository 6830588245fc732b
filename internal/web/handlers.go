package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	"github.com/conorfennell/leitbox/internal/deck"
	"github.com/conorfennell/leitbox/internal/domain"
	"github.com/conorfennell/leitbox/internal/queue"
	"github.com/conorfennell/leitbox/internal/session"
)

type deckView struct {
	Total    int
	DueCount int
	NewCount int
}

func (s *Server) deckView(cards []domain.Card) deckView {
	today := s.today()
	v := deckView{Total: len(cards)}
	for _, c := range cards {
		switch {
		case c.Bucket == domain.Unseen:
			v.NewCount++
		case !c.Due.After(today):
			v.DueCount++
		}
	}
	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cards, ok := s.loadCards(w)
	if !ok {
		return
	}
	s.render(w, "index", s.deckView(cards))
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	cards, ok := s.loadCards(w)
	if !ok {
		return
	}
	s.render(w, "deck", s.deckView(cards))
}

type cardView struct {
	Card      domain.Card
	Remaining int
	Mode      string
}

// handleStudyNext starts a session for the requested mode, or continues
// the running one, and renders the front of the head card. An exhausted
// queue renders the terminal "nothing to review" view.
func (s *Server) handleStudyNext(w http.ResponseWriter, r *http.Request) {
	mode, err := queue.ParseMode(chi.URLParam(r, "mode"))
	if err != nil || mode == queue.Browse {
		http.Error(w, "Invalid study mode", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A finished session restarts on the next visit, picking up whatever
	// has become due in the meantime.
	if s.sess == nil || s.mode != mode || s.sess.Phase() == session.Done {
		cards, ok := s.loadCards(w)
		if !ok {
			return
		}
		s.sess = session.New(cards, mode, s.queueLimit, s.today())
		s.mode = mode
	}
	s.renderCurrent(w)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		http.Error(w, "No study session", http.StatusBadRequest)
		return
	}
	if err := s.sess.Reveal(); err != nil {
		s.render(w, "done", s.modeName())
		return
	}
	s.renderCurrent(w)
}

// handleRate is the only handler that changes scheduling state. The
// rating is validated here; the scheduler itself trusts its input.
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	rating, err := domain.ParseRating(r.PostFormValue("rating"))
	if err != nil {
		http.Error(w, "Invalid rating", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		http.Error(w, "No study session", http.StatusBadRequest)
		return
	}

	updated, err := s.sess.Rate(rating, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err := s.db.CommitReview(updated); err != nil {
		s.internalError(w, "failed to commit review", err)
		return
	}
	s.renderCurrent(w)
}

func (s *Server) renderCurrent(w http.ResponseWriter) {
	card, ok := s.sess.Current()
	if !ok {
		s.render(w, "done", s.modeName())
		return
	}
	view := cardView{Card: card, Remaining: s.sess.Remaining(), Mode: s.modeName()}
	if s.sess.Phase() == session.ShowingBack {
		s.render(w, "card_back", view)
		return
	}
	s.render(w, "card_front", view)
}

func (s *Server) modeName() string {
	if s.mode == queue.Learn {
		return "learn"
	}
	return "review"
}

type browseView struct {
	Query string
	Cards []domain.Card
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	cards, ok := s.loadCards(w)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	s.render(w, "browse", browseView{Query: q, Cards: queue.Search(cards, q)})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.PostFormValue("term"))
	definition := strings.TrimSpace(r.PostFormValue("definition"))
	if term == "" || definition == "" {
		http.Error(w, "Term and definition are required", http.StatusBadRequest)
		return
	}
	var tags []string
	for _, t := range strings.Split(r.PostFormValue("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card := domain.NewCard(term, definition, tags, "manual", s.today())
	if err := s.db.InsertCard(card); err != nil {
		s.internalError(w, "failed to insert card", err)
		return
	}
	s.invalidateSession()
	s.handleBrowse(w, r)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCard(id); err != nil {
		s.internalError(w, "failed to delete card", err)
		return
	}
	s.invalidateSession()
	s.handleBrowse(w, r)
}

// handleImport replaces the whole collection with the uploaded deck.
// CSV/TSV uploads reset every card to bucket 0; a .json upload is treated
// as a backup written by /export and restored verbatim, scheduling state
// and all.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("deck")
	if err != nil {
		http.Error(w, "Missing deck file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var cards []domain.Card
	if strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
		cards, err = deck.Restore(file)
	} else {
		cards, err = deck.Parse(file, header.Filename, s.today())
	}
	if err != nil {
		http.Error(w, "Unreadable deck file", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ReplaceAll(cards); err != nil {
		s.internalError(w, "failed to replace collection", err)
		return
	}
	s.invalidateSession()
	s.handleBrowse(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	cards, ok := s.loadCards(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="leitbox-export.json"`)
	if err := deck.Export(w, cards); err != nil {
		s.internalError(w, "failed to export deck", err)
	}
}
