package bggfake

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/boardshelf/pkg/logger"
)

// Server answers /collection and /thing like the BGG XML API v2.
type Server struct {
	mu           sync.Mutex
	games        map[int]Game
	owners       map[string]Owner
	polls        map[string]int
	failing      map[int]bool
	pendingPolls int

	collectionCalls atomic.Int64
	thingCalls      atomic.Int64

	logger logger.Logger
}

// New creates a fake server with configuration options.
func New(opts ...Option) *Server {
	s := &Server{
		games:   make(map[int]Game),
		owners:  make(map[string]Owner),
		polls:   make(map[string]int),
		failing: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("bggfake")
	}
	return s
}

// Handler returns the HTTP handler serving the fake API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/collection", s.handleCollection)
	mux.HandleFunc("/thing", s.handleThing)
	return mux
}

// CollectionCalls returns how many collection requests were served.
func (s *Server) CollectionCalls() int64 { return s.collectionCalls.Load() }

// ThingCalls returns how many thing requests were served.
func (s *Server) ThingCalls() int64 { return s.thingCalls.Load() }

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	s.collectionCalls.Add(1)
	username := r.URL.Query().Get("username")

	s.mu.Lock()
	owner, ok := s.owners[username]
	pending := false
	if ok && s.polls[username] < s.pendingPolls {
		s.polls[username]++
		pending = true
	}
	s.mu.Unlock()

	if !ok {
		s.writeXML(w, r, http.StatusOK, xmlErrors{Message: "Invalid username specified"})
		return
	}
	if pending {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>` + "\n" +
			`<message>Your request for this collection has been accepted and will be processed.  Please try again later for access.</message>`))
		return
	}

	doc := xmlCollection{TermsOfUse: termsOfUse}
	s.mu.Lock()
	for _, id := range owner.Owned {
		item := xmlCollectionItem{ObjectType: "thing", ObjectID: id, Subtype: "boardgame", Rating: xmlValue{Value: "N/A"}}
		if g, ok := s.games[id]; ok {
			item.Name = g.Name
		}
		if v, ok := owner.Ratings[id]; ok {
			item.Rating.Value = strconv.FormatFloat(v, 'f', -1, 64)
		}
		doc.Items = append(doc.Items, item)
	}
	s.mu.Unlock()
	doc.TotalItems = len(doc.Items)

	s.writeXML(w, r, http.StatusOK, doc)
}

func (s *Server) handleThing(w http.ResponseWriter, r *http.Request) {
	s.thingCalls.Add(1)

	var ids []int
	for _, part := range strings.Split(r.URL.Query().Get("id"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			s.writeXML(w, r, http.StatusBadRequest, xmlErrors{Message: "Invalid id " + part})
			return
		}
		ids = append(ids, id)
	}

	doc := xmlThings{TermsOfUse: termsOfUse}
	s.mu.Lock()
	for _, id := range ids {
		if s.failing[id] {
			s.mu.Unlock()
			s.logger.Debug(r.Context(), "failing thing request", logger.Ints("ids", ids))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if g, ok := s.games[id]; ok {
			doc.Items = append(doc.Items, renderThing(&g))
		}
	}
	s.mu.Unlock()

	s.writeXML(w, r, http.StatusOK, doc)
}

func (s *Server) writeXML(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := marshalDocument(v)
	if err != nil {
		s.logger.Error(r.Context(), "failed to render document", logger.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug(r.Context(), "failed to write response", logger.Error(err))
	}
}
