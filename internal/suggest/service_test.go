package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-looply/internal/relationship"
	"backend-looply/internal/user"

	"github.com/pashagolub/pgxmock/v3"
)

var errSuggest = errors.New("suggest error")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func summaryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "avatar_url", "bio", "location", "created_at"})
}

func newService(mock pgxmock.PgxPoolIface) *Service {
	return NewService(user.NewDirectory(mock, nil), relationship.NewResolver(mock))
}

func TestSuggestionsExcludesSelfAndConnections(t *testing.T) {
	mock := newMock(t)

	created := time.Now()
	mock.ExpectQuery(`FROM users\s+ORDER BY created_at`).
		WillReturnRows(summaryRows().
			AddRow("user-1", "alice", "", "", "", created).
			AddRow("user-2", "bob", "", "", "", created).
			AddRow("user-3", "carol", "", "", "", created).
			AddRow("user-4", "dave", "", "", "", created).
			AddRow("user-5", "eve", "", "", "", created))
	// user-2 is followed, user-3 is a follower, user-4 is an accepted friend
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.following_id`).
		WithArgs("user-1").
		WillReturnRows(summaryRows().AddRow("user-2", "bob", "", "", "", created))
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.follower_id`).
		WithArgs("user-1").
		WillReturnRows(summaryRows().AddRow("user-3", "carol", "", "", "", created))
	mock.ExpectQuery(`FROM friend_requests fr`).
		WithArgs("user-1").
		WillReturnRows(summaryRows().AddRow("user-4", "dave", "", "", "", created))

	svc := newService(mock)
	suggestions, err := svc.Suggestions(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].ID != "user-5" {
		t.Fatalf("unexpected suggestions %v", suggestions)
	}
}

func TestSuggestionsLimit(t *testing.T) {
	mock := newMock(t)

	created := time.Now()
	mock.ExpectQuery(`FROM users\s+ORDER BY created_at`).
		WillReturnRows(summaryRows().
			AddRow("user-2", "bob", "", "", "", created).
			AddRow("user-3", "carol", "", "", "", created).
			AddRow("user-4", "dave", "", "", "", created))
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.following_id`).
		WithArgs("user-1").
		WillReturnRows(summaryRows())
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.follower_id`).
		WithArgs("user-1").
		WillReturnRows(summaryRows())
	mock.ExpectQuery(`FROM friend_requests fr`).
		WithArgs("user-1").
		WillReturnRows(summaryRows())

	svc := newService(mock)
	suggestions, err := svc.Suggestions(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(suggestions))
	}
	// insertion order is preserved
	if suggestions[0].ID != "user-2" || suggestions[1].ID != "user-3" {
		t.Fatalf("unexpected order %v", suggestions)
	}
}

func TestSuggestionsResolverError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM users\s+ORDER BY created_at`).
		WillReturnRows(summaryRows().AddRow("user-2", "bob", "", "", "", time.Now()))
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.following_id`).
		WithArgs("user-1").
		WillReturnError(errSuggest)

	svc := newService(mock)
	if _, err := svc.Suggestions(context.Background(), "user-1", 0); err == nil {
		t.Fatalf("expected error")
	}
}
