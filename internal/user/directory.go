package user

import (
	"context"
	"errors"
	"time"

	"backend-looply/internal/apperr"
	"backend-looply/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// Directory is a read-only view over the users table, which is owned and
// mutated by the identity subsystem.
type Directory struct {
	db    db.Querier
	redis *redis.Client
}

func NewDirectory(q db.Querier, rdb *redis.Client) *Directory {
	return &Directory{db: q, redis: rdb}
}

const usernameCacheTTL = 10 * time.Minute

func (d *Directory) Summary(ctx context.Context, id string) (Summary, error) {
	row := d.db.QueryRow(ctx, `
		SELECT id, username, avatar_url, bio, location, created_at
		FROM users WHERE id=$1
	`, id)
	return scanSummary(row)
}

// Resolve looks a user up by id or, failing that, by username. Follow
// requests historically carried either one.
func (d *Directory) Resolve(ctx context.Context, idOrUsername string) (Summary, error) {
	row := d.db.QueryRow(ctx, `
		SELECT id, username, avatar_url, bio, location, created_at
		FROM users WHERE id=$1 OR username=$1
	`, idOrUsername)
	return scanSummary(row)
}

// UsernameOf returns the current username for id, served from redis when a
// client is configured. Username lookups back every legacy share-target
// match, so they are the one hot read worth caching.
func (d *Directory) UsernameOf(ctx context.Context, id string) (string, error) {
	key := "username:" + id
	if d.redis != nil {
		if cached, err := d.redis.Get(ctx, key).Result(); err == nil {
			return cached, nil
		}
	}

	var username string
	err := d.db.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, id).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFoundf("user %s not found", id)
	}
	if err != nil {
		return "", apperr.Unavailablef("store: %v", err)
	}

	if d.redis != nil {
		_ = d.redis.Set(ctx, key, username, usernameCacheTTL).Err()
	}
	return username, nil
}

func (d *Directory) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := d.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, id).Scan(&ok)
	if err != nil {
		return false, apperr.Unavailablef("store: %v", err)
	}
	return ok, nil
}

// All lists every user in creation order, for suggestion assembly.
func (d *Directory) All(ctx context.Context) ([]Summary, error) {
	rows, err := d.db.Query(ctx, `
		SELECT id, username, avatar_url, bio, location, created_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	defer rows.Close()

	var users []Summary
	for rows.Next() {
		var u Summary
		if err := rows.Scan(&u.ID, &u.Username, &u.AvatarURL, &u.Bio, &u.Location, &u.CreatedAt); err != nil {
			return nil, apperr.Unavailablef("store: %v", err)
		}
		users = append(users, u)
	}
	return users, nil
}

func scanSummary(row pgx.Row) (Summary, error) {
	var u Summary
	err := row.Scan(&u.ID, &u.Username, &u.AvatarURL, &u.Bio, &u.Location, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return Summary{}, apperr.Unavailablef("store: %v", err)
	}
	return u, nil
}
