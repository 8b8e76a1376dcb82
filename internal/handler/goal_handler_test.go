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

type mockGoalStore struct {
	list     func(ctx context.Context, f repository.GoalFilter) ([]model.Goal, error)
	findByID func(ctx context.Context, id int) (*model.Goal, error)
	insert   func(ctx context.Context, g *model.Goal) error
	update   func(ctx context.Context, id int, patch model.GoalPatch) (*model.Goal, error)
	delete   func(ctx context.Context, id int) error
}

func (m *mockGoalStore) List(ctx context.Context, f repository.GoalFilter) ([]model.Goal, error) {
	return m.list(ctx, f)
}

func (m *mockGoalStore) FindByID(ctx context.Context, id int) (*model.Goal, error) {
	return m.findByID(ctx, id)
}

func (m *mockGoalStore) Insert(ctx context.Context, g *model.Goal) error {
	return m.insert(ctx, g)
}

func (m *mockGoalStore) Update(ctx context.Context, id int, patch model.GoalPatch) (*model.Goal, error) {
	return m.update(ctx, id, patch)
}

func (m *mockGoalStore) Delete(ctx context.Context, id int) error {
	return m.delete(ctx, id)
}

func goalRouter(store GoalStore) *gin.Engine {
	h := NewGoalHandler(store, zap.NewNop())
	r := gin.New()
	r.GET("/api/goals", h.List)
	r.POST("/api/goals", h.Create)
	r.GET("/api/goals/:id", h.Get)
	r.PUT("/api/goals/:id", h.Update)
	r.DELETE("/api/goals/:id", h.Delete)
	return r
}

func TestGoalList_PassesFilters(t *testing.T) {
	var got repository.GoalFilter
	store := &mockGoalStore{
		list: func(ctx context.Context, f repository.GoalFilter) ([]model.Goal, error) {
			got = f
			return []model.Goal{{ID: 1, Type: "feature", Title: "a", Year: 2026}}, nil
		},
	}

	w := performRequest(goalRouter(store), http.MethodGet,
		"/api/goals?year=2026&quarter=Q1&team=Core&type=feature", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.Year != 2026 || got.Quarter != "Q1" || got.Team != "Core" || got.Type != "feature" {
		t.Errorf("filter not forwarded: %+v", got)
	}
}

func TestGoalList_RejectsBadYear(t *testing.T) {
	store := &mockGoalStore{
		list: func(ctx context.Context, f repository.GoalFilter) ([]model.Goal, error) {
			t.Fatal("store should not be called")
			return nil, nil
		},
	}

	w := performRequest(goalRouter(store), http.MethodGet, "/api/goals?year=abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGoalGet_NotFound(t *testing.T) {
	store := &mockGoalStore{
		findByID: func(ctx context.Context, id int) (*model.Goal, error) {
			return nil, repository.ErrNotFound
		},
	}

	w := performRequest(goalRouter(store), http.MethodGet, "/api/goals/99", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != "Goal not found" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestGoalCreate_RequiresTypeTitleYear(t *testing.T) {
	store := &mockGoalStore{
		insert: func(ctx context.Context, g *model.Goal) error {
			t.Fatal("store should not be called")
			return nil
		},
	}

	w := performRequest(goalRouter(store), http.MethodPost, "/api/goals",
		map[string]any{"title": "no type or year"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGoalCreate_RejectsProgressOutOfRange(t *testing.T) {
	store := &mockGoalStore{
		insert: func(ctx context.Context, g *model.Goal) error {
			t.Fatal("store should not be called")
			return nil
		},
	}

	w := performRequest(goalRouter(store), http.MethodPost, "/api/goals", map[string]any{
		"type":     "feature",
		"title":    "too much progress",
		"year":     2026,
		"progress": 150,
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGoalCreate_ReturnsStoredGoal(t *testing.T) {
	store := &mockGoalStore{
		insert: func(ctx context.Context, g *model.Goal) error {
			g.ID = 7
			return nil
		},
	}

	w := performRequest(goalRouter(store), http.MethodPost, "/api/goals", map[string]any{
		"type":       "feature",
		"title":      "New checkout flow",
		"year":       2026,
		"team":       "Payments",
		"progress":   10,
		"start_date": "2026-01-15",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var goal model.Goal
	decodeBody(t, w, &goal)
	if goal.ID != 7 {
		t.Errorf("expected assigned id 7, got %d", goal.ID)
	}
	if goal.StartDate == nil || goal.StartDate.String() != "2026-01-15" {
		t.Errorf("start date not round-tripped: %v", goal.StartDate)
	}
}

func TestGoalUpdate_RejectsProgressOutOfRange(t *testing.T) {
	store := &mockGoalStore{
		update: func(ctx context.Context, id int, patch model.GoalPatch) (*model.Goal, error) {
			t.Fatal("store should not be called")
			return nil, nil
		},
	}

	w := performRequest(goalRouter(store), http.MethodPut, "/api/goals/1",
		map[string]any{"progress": -5})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGoalDelete_NotFound(t *testing.T) {
	store := &mockGoalStore{
		delete: func(ctx context.Context, id int) error {
			return repository.ErrNotFound
		},
	}

	w := performRequest(goalRouter(store), http.MethodDelete, "/api/goals/42", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGoalDelete_Success(t *testing.T) {
	store := &mockGoalStore{
		delete: func(ctx context.Context, id int) error { return nil },
	}

	w := performRequest(goalRouter(store), http.MethodDelete, "/api/goals/1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["message"] != "Goal deleted successfully" {
		t.Errorf("unexpected message: %q", body["message"])
	}
}
