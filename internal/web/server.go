package web

import (
	"embed"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/veritas-study/veritas/internal/catalog"
	"github.com/veritas-study/veritas/internal/domain"
	"github.com/veritas-study/veritas/internal/progress"
	"github.com/veritas-study/veritas/internal/rank"
	"github.com/veritas-study/veritas/internal/session"
	"github.com/veritas-study/veritas/internal/store"
)

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server. It owns the active
// user's progress record; all mutations to it go through the scheduler and
// aggregator and are serialized by mu, preserving review order.
type Server struct {
	db        *store.DB
	cat       *catalog.Catalog
	builder   *session.Builder
	router    *http.ServeMux
	templates *template.Template
	now       func() time.Time

	mu  sync.Mutex
	rec *domain.Record

	// Active study session, nil index-past-end when finished. Cards not
	// yet reviewed when a session is abandoned keep their SRS state.
	cards    []domain.Card
	index    int
	council  bool
	shownAt  time.Time
	revealed bool
}

// NewServer creates and configures a new server for the given user. The
// progress record is loaded once here; a missing record starts fresh.
func NewServer(db *store.DB, cat *catalog.Catalog, builder *session.Builder, userID, userName string) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	rec, err := db.LoadRecord(userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = domain.NewRecord(userID, userName)
	}
	if rec.Profile.ID == "" {
		rec.Profile.ID = userID
	}
	if rec.Profile.Name == "" {
		rec.Profile.Name = userName
	}

	s := &Server{
		db:        db,
		cat:       cat,
		builder:   builder,
		router:    http.NewServeMux(),
		templates: tpl,
		now:       time.Now,
		rec:       rec,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleTopics())
	s.router.HandleFunc("/session", s.handleStartSession())
	s.router.HandleFunc("/session/card", s.handleCard())
	s.router.HandleFunc("/session/reveal", s.handleReveal())
	s.router.HandleFunc("/session/review", s.handleReview())
	s.router.HandleFunc("/session/abandon", s.handleAbandon())
	s.router.HandleFunc("/stats", s.handleStats())
	s.router.HandleFunc("/ranking", s.handleRanking())
}

type topicView struct {
	domain.Topic
	Total   int
	Stats   domain.TopicStats
	Mastery int // percent of the topic's cards answered correctly
}

// handleTopics renders the home page: topic list, streak and rank header.
func (s *Server) handleTopics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		var topics []topicView
		for _, t := range domain.Topics {
			tv := topicView{Topic: t, Total: s.cat.TopicTotal(t.ID), Stats: s.rec.Topics[t.ID]}
			if tv.Total > 0 {
				pct := tv.Stats.Correct * 100 / tv.Total
				if pct > 100 {
					pct = 100
				}
				tv.Mastery = pct
			}
			topics = append(topics, tv)
		}

		data := map[string]interface{}{
			"Profile": s.rec.Profile,
			"Streak":  s.rec.Stats.Streak,
			"Rank":    rank.Of(s.rec.Stats.CardsLifetime),
			"Topics":  topics,
			"Limits":  []int{5, 10, 15},
		}
		s.render(w, "topics", data)
	}
}

// handleStartSession assembles a new session from the posted filters and
// shows the first card. Starting a session is also the authenticated
// "session start" for streak purposes, so day rollover is applied here.
func (s *Server) handleStartSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		topicID := r.PostFormValue("topic")
		level, _ := strconv.Atoi(r.PostFormValue("level"))
		limit, err := strconv.Atoi(r.PostFormValue("limit"))
		if err != nil || limit <= 0 {
			http.Error(w, "Invalid session limit", http.StatusBadRequest)
			return
		}
		council := r.PostFormValue("council") != ""

		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.now()
		progress.OnSessionStart(s.rec, now)
		if err := s.db.SaveRecord(s.rec.Profile.ID, s.rec, now); err != nil {
			slog.Error("failed to save record after session start", "error", err)
		}

		s.cards = s.builder.Build(s.cat.Cards, s.rec.Stats.CardStates, session.Filter{TopicID: topicID, Level: level}, limit)
		s.index = 0
		s.council = council
		s.shownAt = now
		s.revealed = false

		s.renderCurrentCard(w)
	}
}

// handleCard re-renders the current card, auto-revealing it in council
// mode once the countdown has elapsed.
func (s *Server) handleCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.council && !s.revealed && s.index < len(s.cards) && session.AutoReveal(s.shownAt, s.now()) {
			s.revealed = true
		}
		s.renderCurrentCard(w)
	}
}

func (s *Server) handleReveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.revealed = true
		s.renderCurrentCard(w)
	}
}

// handleReview records the graded outcome for the current card and moves
// to the next one. Outcomes are applied in the order cards are completed.
func (s *Server) handleReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.index >= len(s.cards) {
			http.Error(w, "No active card", http.StatusBadRequest)
			return
		}

		outcome := domain.Outcome(r.PostFormValue("outcome"))
		card := s.cards[s.index]
		now := s.now()

		if err := progress.RecordReview(s.rec, card.ID, card.TopicID, outcome, now); err != nil {
			http.Error(w, "Invalid outcome", http.StatusBadRequest)
			return
		}
		if err := s.db.SaveRecord(s.rec.Profile.ID, s.rec, now); err != nil {
			slog.Error("failed to save record after review", "card", card.ID, "error", err)
		}

		s.index++
		s.shownAt = now
		s.revealed = false
		s.renderCurrentCard(w)
	}
}

// handleAbandon ends the session early. Cards not yet reviewed are left
// untouched.
func (s *Server) handleAbandon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.mu.Lock()
		s.cards = nil
		s.index = 0
		s.mu.Unlock()

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// renderCurrentCard renders the front or back of the current card, the
// completion page when the session is done, or the empty state when the
// session never had cards. Callers hold mu.
func (s *Server) renderCurrentCard(w http.ResponseWriter) {
	if len(s.cards) == 0 {
		s.render(w, "session_empty", nil)
		return
	}
	if s.index >= len(s.cards) {
		s.render(w, "session_done", map[string]interface{}{
			"Reviewed": len(s.cards),
			"Streak":   s.rec.Stats.Streak,
		})
		return
	}

	card := s.cards[s.index]
	data := map[string]interface{}{
		"Card":     card,
		"Position": s.index + 1,
		"Total":    len(s.cards),
		"Council":  s.council,
	}
	if s.council && !s.revealed {
		remaining := session.RevealDeadline(s.shownAt).Sub(s.now())
		if remaining < 0 {
			remaining = 0
		}
		data["RemainingMillis"] = remaining.Milliseconds()
	}

	if s.revealed {
		s.render(w, "card_back", data)
	} else {
		s.render(w, "card_front", data)
	}
}

// handleStats renders the progress page.
func (s *Server) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		var topics []topicView
		for _, t := range domain.Topics {
			topics = append(topics, topicView{Topic: t, Total: s.cat.TopicTotal(t.ID), Stats: s.rec.Topics[t.ID]})
		}

		data := map[string]interface{}{
			"Stats":    s.rec.Stats,
			"Rank":     rank.Of(s.rec.Stats.CardsLifetime),
			"Progress": rank.ProgressToNext(s.rec.Stats.CardsLifetime),
			"Week":     progress.WeekActivity(s.rec, s.now()),
			"Topics":   topics,
		}
		s.render(w, "stats", data)
	}
}

type rankingEntry struct {
	Profile  domain.Profile
	Lifetime int
	Tier     rank.Tier
	Me       bool
}

// handleRanking renders the leaderboard across every stored record,
// ordered by lifetime reviews.
func (s *Server) handleRanking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.db.ListRecords()
		if err != nil {
			log.Printf("Error listing records for ranking: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Snapshot the live record under mu; the in-memory record is
		// fresher than its stored row and must not be read unguarded.
		s.mu.Lock()
		me := rankingEntry{
			Profile:  s.rec.Profile,
			Lifetime: s.rec.Stats.CardsLifetime,
			Tier:     rank.Of(s.rec.Stats.CardsLifetime),
			Me:       true,
		}
		s.mu.Unlock()

		delete(records, me.Profile.ID)
		entries := []rankingEntry{me}
		for _, rec := range records {
			entries = append(entries, rankingEntry{
				Profile:  rec.Profile,
				Lifetime: rec.Stats.CardsLifetime,
				Tier:     rank.Of(rec.Stats.CardsLifetime),
			})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Lifetime > entries[j].Lifetime })

		s.render(w, "ranking", map[string]interface{}{"Entries": entries})
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}
