package relationship

import (
	"context"
	"errors"

	"backend-looply/internal/apperr"
	"backend-looply/internal/db"
	"backend-looply/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db    db.Querier
	users *user.Directory
}

func NewService(q db.Querier, users *user.Directory) *Service {
	return &Service{db: q, users: users}
}

func (s *Service) SendFriendRequest(ctx context.Context, requesterID, recipientID string) (FriendRequest, error) {
	ok, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return FriendRequest{}, err
	}
	if !ok {
		return FriendRequest{}, apperr.NotFoundf("recipient %s not found", recipientID)
	}

	// one request per unordered pair, either direction, any status
	var exists bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE (requester_id=$1 AND recipient_id=$2)
			   OR (requester_id=$2 AND recipient_id=$1)
		)
	`, requesterID, recipientID).Scan(&exists)
	if err != nil {
		return FriendRequest{}, apperr.Unavailablef("store: %v", err)
	}
	if exists {
		return FriendRequest{}, apperr.Conflictf("a friend request already exists between these users")
	}

	req := FriendRequest{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      StatusPending,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO friend_requests (id, requester_id, recipient_id, status)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, req.ID, req.RequesterID, req.RecipientID, req.Status)
	if err := row.Scan(&req.CreatedAt, &req.UpdatedAt); err != nil {
		return FriendRequest{}, apperr.Unavailablef("store: %v", err)
	}
	return req, nil
}

func (s *Service) RespondToRequest(ctx context.Context, requestID, responderID string, status RequestStatus) (FriendRequest, error) {
	if !ValidResponse(status) {
		return FriendRequest{}, apperr.BadRequestf("status must be accepted, rejected or blocked")
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, requester_id, recipient_id, status, created_at, updated_at
		FROM friend_requests WHERE id=$1
	`, requestID)
	var req FriendRequest
	err := row.Scan(&req.ID, &req.RequesterID, &req.RecipientID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return FriendRequest{}, apperr.NotFoundf("friend request %s not found", requestID)
	}
	if err != nil {
		return FriendRequest{}, apperr.Unavailablef("store: %v", err)
	}
	if req.RecipientID != responderID {
		return FriendRequest{}, apperr.Forbiddenf("only the recipient can respond to this request")
	}

	// repeated responses are allowed, last write wins
	err = s.db.QueryRow(ctx, `
		UPDATE friend_requests SET status=$2, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, requestID, status).Scan(&req.UpdatedAt)
	if err != nil {
		return FriendRequest{}, apperr.Unavailablef("store: %v", err)
	}
	req.Status = status
	return req, nil
}

// Follow creates a follow edge to the user named by target (id or username).
// Following someone twice is not an error; the result says so instead.
func (s *Service) Follow(ctx context.Context, followerID, target string) (FollowResult, error) {
	tgt, err := s.users.Resolve(ctx, target)
	if err != nil {
		return FollowResult{}, err
	}
	if tgt.ID == followerID {
		return FollowResult{}, apperr.BadRequestf("you cannot follow yourself")
	}

	following, err := s.IsFollowing(ctx, followerID, tgt.ID)
	if err != nil {
		return FollowResult{}, err
	}
	if following {
		return FollowResult{Success: true, AlreadyFollowing: true, TargetID: tgt.ID}, nil
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO follow_edges (follower_id, following_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, followerID, tgt.ID)
	if err != nil {
		return FollowResult{}, apperr.Unavailablef("store: %v", err)
	}
	return FollowResult{Success: true, TargetID: tgt.ID}, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, target string) (FollowResult, error) {
	tgt, err := s.users.Resolve(ctx, target)
	if err != nil {
		return FollowResult{}, err
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM follow_edges WHERE follower_id=$1 AND following_id=$2
	`, followerID, tgt.ID)
	if err != nil {
		return FollowResult{}, apperr.Unavailablef("store: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return FollowResult{}, apperr.BadRequestf("you are not following this user")
	}
	return FollowResult{Success: true, TargetID: tgt.ID}, nil
}

func (s *Service) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follow_edges WHERE follower_id=$1 AND following_id=$2
		)
	`, followerID, targetID).Scan(&ok)
	if err != nil {
		return false, apperr.Unavailablef("store: %v", err)
	}
	return ok, nil
}
