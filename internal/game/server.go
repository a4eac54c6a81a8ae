package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server runs a fleet of matches, one goroutine per match. The first
// match failure cancels the rest; a context cancellation stops them
// all at their next pipeline boundary. Add every game before Run.
// Games must not share a planner: each game closes its own when it
// finishes.
type Server struct {
	log   *zap.Logger
	games []*Game
}

func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log}
}

// Add registers a match to run.
func (s *Server) Add(g *Game) {
	s.games = append(s.games, g)
}

// Games returns the registered matches, for reading results after Run
// has returned.
func (s *Server) Games() []*Game {
	return s.games
}

// Run plays every registered match to completion and waits for all of
// them.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("server starting", zap.Int("games", len(s.games)))
	eg, ctx := errgroup.WithContext(ctx)
	for _, g := range s.games {
		g := g
		eg.Go(func() error {
			defer g.Close()
			if err := g.RunMatch(ctx); err != nil {
				return fmt.Errorf("game %s: %w", g.Name(), err)
			}
			return nil
		})
	}
	err := eg.Wait()
	s.log.Info("server stopped")
	return err
}
