package bggfake

import "github.com/okian/boardshelf/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithGames adds games to the catalog.
func WithGames(games ...Game) Option {
	return func(s *Server) {
		for _, g := range games {
			s.games[g.ID] = g
		}
	}
}

// WithOwner registers a user's collection.
func WithOwner(o Owner) Option {
	return func(s *Server) {
		s.owners[o.Username] = o
	}
}

// WithPendingPolls makes each user's first n collection requests reply 202.
func WithPendingPolls(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.pendingPolls = n
		}
	}
}

// WithFailingIDs makes any thing request naming one of ids reply 500.
func WithFailingIDs(ids ...int) Option {
	return func(s *Server) {
		for _, id := range ids {
			s.failing[id] = true
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
