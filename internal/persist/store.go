package persist

import (
	"context"

	"github.com/fablemud/engine/internal/snapshot"
)

// SaveStore persists match snapshots keyed by game name. SaveGame is an
// upsert; LoadGame returns (nil, nil) when no save exists.
type SaveStore interface {
	SaveGame(ctx context.Context, rec *snapshot.GameRecord) error
	LoadGame(ctx context.Context, name string) (*snapshot.GameRecord, error)
	ListGames(ctx context.Context) ([]string, error)
	DeleteGame(ctx context.Context, name string) error
}
