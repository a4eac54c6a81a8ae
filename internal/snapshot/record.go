package snapshot

import (
	"encoding/json"
	"time"
)

// ComponentRecord is one serialized component: the registry name of its
// type and the JSON encoding of its fields.
type ComponentRecord struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// EntityRecord is one serialized entity, addressed by its runtime name.
type EntityRecord struct {
	Name       string            `json:"name"`
	Components []ComponentRecord `json:"components"`
}

// GameRecord is a full save of one game: every live entity with every
// component, ordered by spawn index so saves of the same state are
// byte-for-byte comparable. Turn and Winner carry the match clock so a
// restore resumes on the phase the save was taken in.
type GameRecord struct {
	Name     string         `json:"name"`
	Turn     int            `json:"turn"`
	Winner   string         `json:"winner,omitempty"`
	SavedAt  time.Time      `json:"saved_at"`
	Entities []EntityRecord `json:"entities"`
}
