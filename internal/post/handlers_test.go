package post

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-looply/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func testApp(mock pgxmock.PgxPoolIface) *fiber.App {
	app := fiber.New()
	var svc *Service
	if mock != nil {
		svc = NewService(mock, user.NewDirectory(mock, nil))
	} else {
		svc = NewService(nil, user.NewDirectory(nil, nil))
	}
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	RegisterRoutes(app.Group("/posts"), svc, asUser)
	return app
}

func TestCreatePostHandler(t *testing.T) {
	mock := newMock(t)

	expectAuthorSummary(mock, "user-1", "alice", "")
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "alice", "", "hello", "https://img",
			[]byte(`[]`), []byte(`[]`), []byte(`[]`)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	app := testApp(mock)
	body, _ := json.Marshal(map[string]string{"caption": "hello", "image_url": "https://img"})
	req := httptest.NewRequest(http.MethodPost, "/posts/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %d", err, resp.StatusCode)
	}
}

func TestCreatePostHandlerEmptyCaption(t *testing.T) {
	app := testApp(nil)
	req := httptest.NewRequest(http.MethodPost, "/posts/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestToggleLikeHandler(t *testing.T) {
	mock := newMock(t)

	expectToggle(mock, "post-1", []string{}, []string{"user-1"})

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodPost, "/posts/post-1/like", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("like status: %v", err)
	}

	var result LikeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Liked || result.Count != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestToggleLikeHandlerNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT deleted, likes FROM posts`).
		WithArgs("post-404").
		WillReturnRows(pgxmock.NewRows([]string{"deleted", "likes"}))

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodPost, "/posts/post-404/like", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

func TestAddCommentHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT username FROM users`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT deleted, comments FROM posts`).
		WithArgs("post-1").
		WillReturnRows(pgxmock.NewRows([]string{"deleted", "comments"}).AddRow(false, []byte(`[]`)))
	mock.ExpectExec(`UPDATE posts SET comments`).
		WithArgs("post-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	app := testApp(mock)
	body, _ := json.Marshal(map[string]string{"text": "nice"})
	req := httptest.NewRequest(http.MethodPost, "/posts/post-1/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("comment status: %v", err)
	}
}

func TestDeletePostHandlerForbidden(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT author_id FROM posts`).
		WithArgs("post-1").
		WillReturnRows(pgxmock.NewRows([]string{"author_id"}).AddRow("user-9"))

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodDelete, "/posts/post-1", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden, got %d", resp.StatusCode)
	}
}

func TestDeletePostHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT author_id FROM posts`).
		WithArgs("post-1").
		WillReturnRows(pgxmock.NewRows([]string{"author_id"}).AddRow("user-1"))
	mock.ExpectExec(`DELETE FROM posts WHERE origin_post_id=\$1`).
		WithArgs("post-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM posts WHERE id=\$1`).
		WithArgs("post-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodDelete, "/posts/post-1", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status: %v", err)
	}
}

func TestGetPostHandlerNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, author_id, author_username`).
		WithArgs("post-404").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "author_id", "author_username", "author_avatar", "caption", "image_url",
			"deleted", "origin_post_id", "likes", "comments", "shared_by", "created_at", "updated_at",
		}))

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodGet, "/posts/post-404", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}
