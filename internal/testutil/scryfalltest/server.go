// Package scryfalltest provides a fake card database for tests.
package scryfalltest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/mcoot/commander-tracker/internal/services/cards"
)

// Server mimics the endpoints of the card database the client uses
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	cards    map[string]cards.Card
	requests []string
	failing  bool
}

// NewServer starts a fake serving the given cards by exact name
func NewServer(known ...cards.Card) *Server {
	s := &Server{cards: make(map[string]cards.Card)}
	for _, c := range known {
		s.cards[c.Name] = c
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Config returns a client config aimed at this server
func (s *Server) Config() cards.Config {
	cfg := cards.DefaultConfig()
	cfg.BaseURL = s.URL
	return cfg
}

// SetFailing makes every request answer 503
func (s *Server) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// Requests returns the paths requested so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	failing := s.failing
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		writeError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}

	switch r.URL.Path {
	case "/cards/autocomplete":
		q := strings.ToLower(r.URL.Query().Get("q"))
		names := []string{}
		for _, c := range s.snapshot() {
			if strings.Contains(strings.ToLower(c.Name), q) {
				names = append(names, c.Name)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "catalog", "data": names})
	case "/cards/named":
		card, ok := s.lookup(r.URL.Query().Get("exact"))
		if !ok {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(card)
	case "/cards/search":
		data := []cards.Card{}
		for _, c := range s.snapshot() {
			if cards.CanBeCommander(&c) {
				data = append(data, c)
			}
		}
		if len(data) == 0 {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(cards.SearchResult{TotalCards: len(data), Data: data})
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

func (s *Server) lookup(name string) (cards.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[name]
	return c, ok
}

func (s *Server) snapshot() []cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cards.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	return out
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"object": "error", "status": status, "code": code})
}

// Commander returns a legendary creature fixture
func Commander(name string) cards.Card {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return cards.Card{
		ID:         slug,
		Name:       name,
		TypeLine:   "Legendary Creature — Elf Druid",
		OracleText: "{T}: Add {G}.",
		ManaCost:   "{1}{G}",
		ImageURIs: &cards.ImageURIs{
			Normal:  "https://img.example/normal/" + slug + ".jpg",
			ArtCrop: "https://img.example/art/" + slug + ".jpg",
		},
	}
}

// NonCommander returns an instant fixture that cannot lead a deck
func NonCommander(name string) cards.Card {
	return cards.Card{
		Name:       name,
		TypeLine:   "Instant",
		OracleText: "Counter target spell.",
		ManaCost:   "{U}{U}",
	}
}
