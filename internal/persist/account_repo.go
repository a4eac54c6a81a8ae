package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("bad credentials")

type PlayerRow struct {
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	LastSeen     *time.Time
}

type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Load(ctx context.Context, name string) (*PlayerRow, error) {
	row := &PlayerRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name, password_hash, created_at, last_seen
		 FROM players WHERE name = $1`, name,
	).Scan(&row.Name, &row.PasswordHash, &row.CreatedAt, &row.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *AccountRepo) Create(ctx context.Context, name, rawPassword string) (*PlayerRow, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	row := &PlayerRow{
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastSeen:     &now,
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO players (name, password_hash, last_seen)
		 VALUES ($1, $2, $3)`,
		row.Name, row.PasswordHash, row.LastSeen,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Authenticate loads the named player and checks the password. Unknown
// names and wrong passwords both come back as ErrBadCredentials.
func (r *AccountRepo) Authenticate(ctx context.Context, name, rawPassword string) (*PlayerRow, error) {
	row, err := r.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if row == nil || !ValidatePassword(row.PasswordHash, rawPassword) {
		return nil, ErrBadCredentials
	}
	return row, nil
}

func ValidatePassword(hash string, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

// Touch stamps the player's last_seen.
func (r *AccountRepo) Touch(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET last_seen = NOW() WHERE name = $1`,
		name,
	)
	return err
}
