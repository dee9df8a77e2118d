package share

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend-looply/internal/apperr"
	"backend-looply/internal/db"
	"backend-looply/internal/post"
	"backend-looply/internal/user"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db    db.TxQuerier
	users *user.Directory
}

func NewService(q db.TxQuerier, users *user.Directory) *Service {
	return &Service{db: q, users: users}
}

// NormalizeTargets converts the wire targets into the current encoding.
// A bare string is wrapped as {id, type:"follower"}; objects without an id
// and entries that are neither strings nor objects are silently dropped.
func NormalizeTargets(raw []json.RawMessage) []post.ConnectionRef {
	var refs []post.ConnectionRef
	for _, entry := range raw {
		var ref post.ConnectionRef
		if err := json.Unmarshal(entry, &ref); err != nil {
			continue
		}
		switch {
		case ref.LegacyUsername != "":
			refs = append(refs, post.ConnectionRef{ID: ref.LegacyUsername, Type: post.TypeFollower})
		case ref.ID != "":
			refs = append(refs, post.ConnectionRef{ID: ref.ID, Type: post.TypeFollower})
		}
	}
	return refs
}

// SharePost appends one ShareRecord to the post and returns the new total
// share count. The sharer's username is snapshotted at share time.
func (s *Service) SharePost(ctx context.Context, postID, sharerID string, targets []json.RawMessage) (int, error) {
	if len(targets) == 0 {
		return 0, apperr.BadRequestf("share targets required")
	}
	refs := NormalizeTargets(targets)
	if len(refs) == 0 {
		return 0, apperr.BadRequestf("no valid share targets")
	}

	username, err := s.users.UsernameOf(ctx, sharerID)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, apperr.Unavailablef("store: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var deleted bool
	var raw []byte
	err = tx.QueryRow(ctx, `SELECT deleted, shared_by FROM posts WHERE id=$1 FOR UPDATE`, postID).Scan(&deleted, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFoundf("post %s not found", postID)
	}
	if err != nil {
		return 0, apperr.Unavailablef("store: %v", err)
	}
	if deleted {
		return 0, apperr.NotFoundf("post %s not found", postID)
	}

	var records []post.ShareRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, apperr.Unavailablef("store: %v", err)
	}
	records = append(records, post.ShareRecord{
		SharerID:       sharerID,
		SharerUsername: username,
		Targets:        refs,
		SharedAt:       time.Now().UTC(),
	})

	encoded, err := json.Marshal(records)
	if err != nil {
		return 0, apperr.Unavailablef("encode shares: %v", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE posts SET shared_by=$2, updated_at=now() WHERE id=$1`, postID, encoded); err != nil {
		return 0, apperr.Unavailablef("store: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Unavailablef("store: %v", err)
	}
	return len(records), nil
}
