package relationship

import (
	"context"

	"backend-looply/internal/apperr"
	"backend-looply/internal/db"
	"backend-looply/internal/user"
)

// Resolver answers "who is connected to whom". Followers and accepted
// friends arrived through two historically different representations; the
// unified view dedupes by the resolved user id.
type Resolver struct {
	db db.Querier
}

func NewResolver(q db.Querier) *Resolver {
	return &Resolver{db: q}
}

const summaryColumns = `u.id, u.username, u.avatar_url, u.bio, u.location, u.created_at`

// Following lists the users userID follows.
func (r *Resolver) Following(ctx context.Context, userID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM follow_edges f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id=$1
		ORDER BY f.created_at
	`, userID)
}

// Followers lists the users following userID. Distinct query direction from
// Following; the two must not be conflated.
func (r *Resolver) Followers(ctx context.Context, userID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM follow_edges f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id=$1
		ORDER BY f.created_at
	`, userID)
}

// Friends lists users with an accepted friend request involving userID,
// kept for backward compatibility with the pre-follow representation.
func (r *Resolver) Friends(ctx context.Context, userID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM friend_requests fr
		JOIN users u ON u.id = CASE WHEN fr.requester_id=$1 THEN fr.recipient_id ELSE fr.requester_id END
		WHERE fr.status='accepted' AND (fr.requester_id=$1 OR fr.recipient_id=$1)
		ORDER BY fr.created_at
	`, userID)
}

// Connections is the deduplicated union of followers and accepted friends:
// the audience a user can share posts with.
func (r *Resolver) Connections(ctx context.Context, userID string) ([]user.Summary, error) {
	followers, err := r.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := r.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dedupeByID(followers, friends), nil
}

func (r *Resolver) querySummaries(ctx context.Context, sql, userID string) ([]user.Summary, error) {
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, apperr.Unavailablef("store: %v", err)
	}
	defer rows.Close()

	var users []user.Summary
	for rows.Next() {
		var u user.Summary
		if err := rows.Scan(&u.ID, &u.Username, &u.AvatarURL, &u.Bio, &u.Location, &u.CreatedAt); err != nil {
			return nil, apperr.Unavailablef("store: %v", err)
		}
		users = append(users, u)
	}
	return users, nil
}

func dedupeByID(lists ...[]user.Summary) []user.Summary {
	seen := map[string]bool{}
	var out []user.Summary
	for _, list := range lists {
		for _, u := range list {
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	return out
}
