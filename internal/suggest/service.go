package suggest

import (
	"context"

	"backend-looply/internal/relationship"
	"backend-looply/internal/user"
)

const defaultLimit = 30

type Service struct {
	users    *user.Directory
	resolver *relationship.Resolver
}

func NewService(users *user.Directory, resolver *relationship.Resolver) *Service {
	return &Service{users: users, resolver: resolver}
}

// Suggestions lists users the subject may know: everyone except the subject
// and anyone already connected to them in either follow direction or as an
// accepted friend. Creation order, capped at limit.
func (s *Service) Suggestions(ctx context.Context, userID string, limit int) ([]user.Summary, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	all, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}

	excluded := map[string]bool{userID: true}
	for _, fetch := range []func(context.Context, string) ([]user.Summary, error){
		s.resolver.Following, s.resolver.Followers, s.resolver.Friends,
	} {
		connected, err := fetch(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, u := range connected {
			excluded[u.ID] = true
		}
	}

	var suggestions []user.Summary
	for _, u := range all {
		if excluded[u.ID] {
			continue
		}
		suggestions = append(suggestions, u)
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}
