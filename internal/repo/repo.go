package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
)

const uniqueViolation = "23505"

// Repo stores users, sessions and the key-value entries of every user
// namespace in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

func (r *Repo) CreateUser(ctx context.Context, name, passwordHash string) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id`, name, passwordHash).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return "", ErrUserExists
	}
	return id, err
}

func (r *Repo) GetUserByName(ctx context.Context, name string) (string, string, error) {
	var id, hash string
	err := r.Pool.QueryRow(ctx, `SELECT id, password_hash FROM users WHERE name=$1`, name).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (r *Repo) GetUserByID(ctx context.Context, userID string) (string, string, error) {
	var id, name string
	err := r.Pool.QueryRow(ctx, `SELECT id, name FROM users WHERE id=$1`, userID).Scan(&id, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, name, err
}

func (r *Repo) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `INSERT INTO sessions (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id`, userID, token, expiresAt).Scan(&id)
	return id, err
}

// SessionActive reports whether the session exists for userID and has not
// expired.
func (r *Repo) SessionActive(ctx context.Context, userID, sessionID string) (bool, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return false, nil
	}
	var active bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE id=$1 AND user_id=$2 AND expires_at > now())`,
		sessionID, userID).Scan(&active)
	return active, err
}

func (r *Repo) DeleteSessions(ctx context.Context, userID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM sessions WHERE user_id=$1`, userID)
	return err
}

func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.Pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Repo) Set(ctx context.Context, key, value string) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO kv_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`, key, value)
	return err
}

func (r *Repo) Remove(ctx context.Context, key string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM kv_entries WHERE key=$1`, key)
	return err
}

func (r *Repo) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.Pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = ANY($1)`, keys)
	return err
}
