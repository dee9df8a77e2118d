package feed

import (
	"context"
	"sort"
	"time"

	"backend-looply/internal/apperr"
	"backend-looply/internal/db"
	"backend-looply/internal/post"
	"backend-looply/internal/user"
)

const defaultCommunityLimit = 100

type Service struct {
	db    db.Querier
	users *user.Directory
}

func NewService(q db.Querier, users *user.Directory) *Service {
	return &Service{db: q, users: users}
}

// Item is a post annotated for one viewer.
type Item struct {
	post.Post
	IsLiked     bool `json:"is_liked"`
	Unavailable bool `json:"unavailable,omitempty"`
}

// Community returns all non-deleted posts, newest first, capped at limit.
func (s *Service) Community(ctx context.Context, viewerID string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = defaultCommunityLimit
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+post.Columns+`
		FROM posts
		WHERE deleted=false
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		p, err := post.ScanPost(rows)
		if err != nil {
			return nil, apperr.Unavailablef("store: %v", err)
		}
		items = append(items, Item{
			Post:        p,
			IsLiked:     contains(p.Likes, viewerID),
			Unavailable: p.Unavailable(),
		})
	}
	return items, nil
}

// SharedItem reports who shared the post with the viewer most recently.
type SharedItem struct {
	post.Post
	SharedBy string    `json:"shared_by"`
	SharedAt time.Time `json:"shared_at"`
}

// SharedWithMe returns posts shared with the viewer, matched by id or, for
// legacy records, by the viewer's current username. A post shared through
// both encodings appears once; the list is sorted by the most recent
// matching share.
func (s *Service) SharedWithMe(ctx context.Context, viewerID string) ([]SharedItem, error) {
	viewer, err := s.users.Summary(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+post.Columns+`
		FROM posts
		WHERE deleted=false AND jsonb_array_length(shared_by) > 0
	`)
	if err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	defer rows.Close()

	var items []SharedItem
	for rows.Next() {
		p, err := post.ScanPost(rows)
		if err != nil {
			return nil, apperr.Unavailablef("store: %v", err)
		}
		rec, ok := post.LatestShareFor(p.SharedBy, viewerID, viewer.Username)
		if !ok {
			continue
		}
		items = append(items, SharedItem{Post: p, SharedBy: rec.SharerUsername, SharedAt: rec.SharedAt})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].SharedAt.After(items[j].SharedAt)
	})
	return items, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
