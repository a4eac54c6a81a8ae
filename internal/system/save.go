package system

import (
	"context"
	"fmt"
)

// SaveSystem snapshots the whole entity state to the save store after
// each pipeline run. Staged markers are saved as they stand, so a
// restored match resumes exactly where the save left it.
type SaveSystem struct {
	deps *Deps
}

func NewSaveSystem(deps *Deps) *SaveSystem {
	return &SaveSystem{deps: deps}
}

func (s *SaveSystem) Execute(ctx context.Context) error {
	rec, err := s.deps.Manager.Snapshot(s.deps.Match.Game)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", s.deps.Match.Game, err)
	}
	rec.Turn = s.deps.Match.Turn
	rec.Winner = s.deps.Match.Winner
	if err := s.deps.Store.SaveGame(ctx, rec); err != nil {
		return fmt.Errorf("save %q: %w", s.deps.Match.Game, err)
	}
	return nil
}
