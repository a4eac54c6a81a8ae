package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fablemud/engine/internal/snapshot"
)

// SaveRepo stores game records as JSONB rows keyed by game name.
type SaveRepo struct {
	db *DB
}

var _ SaveStore = (*SaveRepo)(nil)

func NewSaveRepo(db *DB) *SaveRepo {
	return &SaveRepo{db: db}
}

func (r *SaveRepo) SaveGame(ctx context.Context, rec *snapshot.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode save %q: %w", rec.Name, err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO saves (name, record, saved_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE
		 SET record = EXCLUDED.record, saved_at = EXCLUDED.saved_at`,
		rec.Name, data, rec.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("save game %q: %w", rec.Name, err)
	}
	return nil
}

func (r *SaveRepo) LoadGame(ctx context.Context, name string) (*snapshot.GameRecord, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT record FROM saves WHERE name = $1`, name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := &snapshot.GameRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decode save %q: %w", name, err)
	}
	return rec, nil
}

func (r *SaveRepo) ListGames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name FROM saves ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *SaveRepo) DeleteGame(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM saves WHERE name = $1`, name)
	return err
}
