package post

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend-looply/internal/apperr"
	"backend-looply/internal/db"
	"backend-looply/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db    db.TxQuerier
	users *user.Directory
}

func NewService(q db.TxQuerier, users *user.Directory) *Service {
	return &Service{db: q, users: users}
}

// Columns is the full posts row in scan order, shared with the feed queries.
const Columns = `id, author_id, author_username, author_avatar, caption, image_url, deleted, COALESCE(origin_post_id,''), likes, comments, shared_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanPost scans one posts row, decoding the embedded jsonb columns.
func ScanPost(row rowScanner) (Post, error) {
	var p Post
	var likes, comments, sharedBy []byte
	err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorUsername, &p.AuthorAvatar, &p.Caption, &p.ImageURL,
		&p.Deleted, &p.OriginPostID, &likes, &comments, &sharedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Post{}, err
	}
	if err := json.Unmarshal(likes, &p.Likes); err != nil {
		return Post{}, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return Post{}, err
	}
	if err := json.Unmarshal(sharedBy, &p.SharedBy); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) CreatePost(ctx context.Context, authorID, caption, imageURL string) (Post, error) {
	if caption == "" {
		return Post{}, apperr.BadRequestf("caption is required")
	}

	author, err := s.users.Summary(ctx, authorID)
	if err != nil {
		return Post{}, err
	}

	p := Post{
		ID:             uuid.NewString(),
		AuthorID:       authorID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.AvatarURL,
		Caption:        caption,
		ImageURL:       imageURL,
		Likes:          []string{},
		Comments:       []Comment{},
		SharedBy:       []ShareRecord{},
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, author_username, author_avatar, caption, image_url, likes, comments, shared_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`, p.ID, p.AuthorID, p.AuthorUsername, p.AuthorAvatar, p.Caption, p.ImageURL,
		[]byte(`[]`), []byte(`[]`), []byte(`[]`))
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, apperr.Unavailablef("store: %v", err)
	}
	return p, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `SELECT `+Columns+` FROM posts WHERE id=$1`, id)
	p, err := ScanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, apperr.NotFoundf("post %s not found", id)
	}
	if err != nil {
		return Post{}, apperr.Unavailablef("store: %v", err)
	}
	if p.Deleted {
		return Post{}, apperr.NotFoundf("post %s not found", id)
	}
	return p, nil
}

type LikeResult struct {
	Likes []string `json:"likes"`
	Count int      `json:"count"`
	Liked bool     `json:"liked"`
}

// ToggleLike adds or removes the caller from the like set. The row lock
// serializes concurrent toggles on the same post; toggling twice restores
// the original state.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (LikeResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return LikeResult{}, apperr.Unavailablef("store: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var deleted bool
	var raw []byte
	err = tx.QueryRow(ctx, `SELECT deleted, likes FROM posts WHERE id=$1 FOR UPDATE`, postID).Scan(&deleted, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return LikeResult{}, apperr.NotFoundf("post %s not found", postID)
	}
	if err != nil {
		return LikeResult{}, apperr.Unavailablef("store: %v", err)
	}
	if deleted {
		return LikeResult{}, apperr.NotFoundf("post %s not found", postID)
	}

	var likes []string
	if err := json.Unmarshal(raw, &likes); err != nil {
		return LikeResult{}, apperr.Unavailablef("store: %v", err)
	}

	liked := true
	next := make([]string, 0, len(likes)+1)
	for _, id := range likes {
		if id == userID {
			liked = false
			continue
		}
		next = append(next, id)
	}
	if liked {
		next = append(next, userID)
	}

	encoded, err := json.Marshal(next)
	if err != nil {
		return LikeResult{}, apperr.Unavailablef("encode likes: %v", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE posts SET likes=$2, updated_at=now() WHERE id=$1`, postID, encoded); err != nil {
		return LikeResult{}, apperr.Unavailablef("store: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return LikeResult{}, apperr.Unavailablef("store: %v", err)
	}
	return LikeResult{Likes: next, Count: len(next), Liked: liked}, nil
}

func (s *Service) AddComment(ctx context.Context, postID, userID, text string) ([]Comment, error) {
	if text == "" {
		return nil, apperr.BadRequestf("comment text is required")
	}

	username, err := s.users.UsernameOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var deleted bool
	var raw []byte
	err = tx.QueryRow(ctx, `SELECT deleted, comments FROM posts WHERE id=$1 FOR UPDATE`, postID).Scan(&deleted, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("post %s not found", postID)
	}
	if err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	if deleted {
		return nil, apperr.NotFoundf("post %s not found", postID)
	}

	var comments []Comment
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	comments = append(comments, Comment{
		AuthorID:       userID,
		AuthorUsername: username,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	})

	encoded, err := json.Marshal(comments)
	if err != nil {
		return nil, apperr.Unavailablef("encode comments: %v", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE posts SET comments=$2, updated_at=now() WHERE id=$1`, postID, encoded); err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	return comments, nil
}

// DeletePost removes the post and any legacy standalone shared copies that
// reference it as their origin. One transaction, origin deleted last, so a
// reader never sees a copy outliving its origin. Re-running after an
// abandoned attempt is a no-op for rows already gone.
func (s *Service) DeletePost(ctx context.Context, postID, requesterID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperr.Unavailablef("store: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var authorID string
	err = tx.QueryRow(ctx, `SELECT author_id FROM posts WHERE id=$1 FOR UPDATE`, postID).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFoundf("post %s not found", postID)
	}
	if err != nil {
		return apperr.Unavailablef("store: %v", err)
	}
	if authorID != requesterID {
		return apperr.Forbiddenf("only the author can delete this post")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE origin_post_id=$1`, postID); err != nil {
		return apperr.Unavailablef("store: %v", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE id=$1`, postID); err != nil {
		return apperr.Unavailablef("store: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Unavailablef("store: %v", err)
	}
	return nil
}
