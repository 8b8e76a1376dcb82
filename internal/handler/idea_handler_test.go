package handler

import (
	"context"
	"net/http"
	"testing"

	"roadmap-service/internal/model"
	"roadmap-service/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mockIdeaStore struct {
	list          func(ctx context.Context, f repository.IdeaFilter) ([]model.Idea, error)
	findByID      func(ctx context.Context, id int) (*model.Idea, error)
	insert        func(ctx context.Context, i *model.Idea) error
	update        func(ctx context.Context, id int, patch model.IdeaPatch) (*model.Idea, error)
	delete        func(ctx context.Context, id int) error
	convertToGoal func(ctx context.Context, ideaID int) (*model.Goal, error)
}

func (m *mockIdeaStore) List(ctx context.Context, f repository.IdeaFilter) ([]model.Idea, error) {
	return m.list(ctx, f)
}

func (m *mockIdeaStore) FindByID(ctx context.Context, id int) (*model.Idea, error) {
	return m.findByID(ctx, id)
}

func (m *mockIdeaStore) Insert(ctx context.Context, i *model.Idea) error {
	return m.insert(ctx, i)
}

func (m *mockIdeaStore) Update(ctx context.Context, id int, patch model.IdeaPatch) (*model.Idea, error) {
	return m.update(ctx, id, patch)
}

func (m *mockIdeaStore) Delete(ctx context.Context, id int) error {
	return m.delete(ctx, id)
}

func (m *mockIdeaStore) ConvertToGoal(ctx context.Context, ideaID int) (*model.Goal, error) {
	return m.convertToGoal(ctx, ideaID)
}

type mockCommentStore struct {
	listByIdea func(ctx context.Context, ideaID int) ([]model.Comment, error)
	insert     func(ctx context.Context, c *model.Comment) error
	delete     func(ctx context.Context, id int) error
}

func (m *mockCommentStore) ListByIdea(ctx context.Context, ideaID int) ([]model.Comment, error) {
	return m.listByIdea(ctx, ideaID)
}

func (m *mockCommentStore) Insert(ctx context.Context, c *model.Comment) error {
	return m.insert(ctx, c)
}

func (m *mockCommentStore) Delete(ctx context.Context, id int) error {
	return m.delete(ctx, id)
}

func ideaRouter(store IdeaStore, comments CommentStore) *gin.Engine {
	h := NewIdeaHandler(store, comments, zap.NewNop())
	r := gin.New()
	r.GET("/api/ideas", h.List)
	r.POST("/api/ideas", h.Create)
	r.GET("/api/ideas/:id", h.Get)
	r.PUT("/api/ideas/:id", h.Update)
	r.DELETE("/api/ideas/:id", h.Delete)
	r.POST("/api/ideas/:id/convert", h.Convert)
	r.GET("/api/ideas/:id/comments", h.ListComments)
	r.POST("/api/ideas/:id/comments", h.CreateComment)
	r.DELETE("/api/comments/:id", h.DeleteComment)
	return r
}

func TestIdeaCreate_StartsOpenWithNoPriority(t *testing.T) {
	var stored model.Idea
	store := &mockIdeaStore{
		insert: func(ctx context.Context, i *model.Idea) error {
			i.ID = 3
			stored = *i
			return nil
		},
	}

	w := performRequest(ideaRouter(store, &mockCommentStore{}), http.MethodPost, "/api/ideas",
		map[string]any{
			"type":     "feature",
			"title":    "Dark mode",
			"year":     2026,
			"priority": 1,           // ignored on create
			"status":   "converted", // ignored on create
		})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stored.Status != model.IdeaStatusOpen {
		t.Errorf("new idea should be open, got %q", stored.Status)
	}
	if stored.Priority != model.PriorityNone {
		t.Errorf("new idea should have no priority, got %d", stored.Priority)
	}
}

func TestIdeaUpdate_RejectsConvertedStatus(t *testing.T) {
	store := &mockIdeaStore{
		update: func(ctx context.Context, id int, patch model.IdeaPatch) (*model.Idea, error) {
			t.Fatal("store should not be called")
			return nil, nil
		},
	}

	w := performRequest(ideaRouter(store, &mockCommentStore{}), http.MethodPut, "/api/ideas/1",
		map[string]any{"status": "converted"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestIdeaUpdate_AllowsOtherStatuses(t *testing.T) {
	store := &mockIdeaStore{
		update: func(ctx context.Context, id int, patch model.IdeaPatch) (*model.Idea, error) {
			return &model.Idea{ID: id, Status: *patch.Status}, nil
		},
	}

	w := performRequest(ideaRouter(store, &mockCommentStore{}), http.MethodPut, "/api/ideas/1",
		map[string]any{"status": "approved"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var idea model.Idea
	decodeBody(t, w, &idea)
	if idea.Status != model.IdeaStatusApproved {
		t.Errorf("expected approved, got %q", idea.Status)
	}
}

func TestIdeaConvert_NotFound(t *testing.T) {
	store := &mockIdeaStore{
		convertToGoal: func(ctx context.Context, ideaID int) (*model.Goal, error) {
			return nil, repository.ErrNotFound
		},
	}

	w := performRequest(ideaRouter(store, &mockCommentStore{}), http.MethodPost,
		"/api/ideas/99/convert", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestIdeaConvert_ConflictWhenAlreadyConverted(t *testing.T) {
	store := &mockIdeaStore{
		convertToGoal: func(ctx context.Context, ideaID int) (*model.Goal, error) {
			return nil, repository.ErrAlreadyConverted
		},
	}

	w := performRequest(ideaRouter(store, &mockCommentStore{}), http.MethodPost,
		"/api/ideas/1/convert", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != "Idea already converted to goal" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestIdeaConvert_ReturnsCreatedGoal(t *testing.T) {
	store := &mockIdeaStore{
		convertToGoal: func(ctx context.Context, ideaID int) (*model.Goal, error) {
			return &model.Goal{ID: 11, Type: "feature", Title: "Dark mode", Year: 2026}, nil
		},
	}

	w := performRequest(ideaRouter(store, &mockCommentStore{}), http.MethodPost,
		"/api/ideas/1/convert", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var goal model.Goal
	decodeBody(t, w, &goal)
	if goal.ID != 11 || goal.Title != "Dark mode" {
		t.Errorf("unexpected goal: %+v", goal)
	}
}

func TestCreateComment_MissingIdeaIs404(t *testing.T) {
	store := &mockIdeaStore{
		findByID: func(ctx context.Context, id int) (*model.Idea, error) {
			return nil, repository.ErrNotFound
		},
	}
	comments := &mockCommentStore{
		insert: func(ctx context.Context, c *model.Comment) error {
			t.Fatal("comment store should not be called")
			return nil
		},
	}

	w := performRequest(ideaRouter(store, comments), http.MethodPost,
		"/api/ideas/99/comments", map[string]any{"author": "ann", "content": "nice"})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCreateComment_AttachesToIdea(t *testing.T) {
	store := &mockIdeaStore{
		findByID: func(ctx context.Context, id int) (*model.Idea, error) {
			return &model.Idea{ID: id}, nil
		},
	}
	comments := &mockCommentStore{
		insert: func(ctx context.Context, c *model.Comment) error {
			c.ID = 5
			return nil
		},
	}

	w := performRequest(ideaRouter(store, comments), http.MethodPost,
		"/api/ideas/2/comments", map[string]any{"author": "ann", "content": "nice"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var comment model.Comment
	decodeBody(t, w, &comment)
	if comment.IdeaID != 2 || comment.ID != 5 {
		t.Errorf("unexpected comment: %+v", comment)
	}
}
