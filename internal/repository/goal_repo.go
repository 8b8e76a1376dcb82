package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roadmap-service/internal/model"
	"roadmap-service/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// GoalFilter narrows goal listings. Zero values mean no filtering.
type GoalFilter struct {
	Year    int
	Quarter string
	Team    string
	Product string
	Type    string
}

type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{db: db, logger: logger}
}

const goalColumns = "id, type, title, description, expected_effect, year, quarter, team, product, progress, start_date, end_date, created_at, updated_at"

func scanGoal(row pgx.Row, g *model.Goal) error {
	return row.Scan(
		&g.ID,
		&g.Type,
		&g.Title,
		&g.Description,
		&g.ExpectedEffect,
		&g.Year,
		&g.Quarter,
		&g.Team,
		&g.Product,
		&g.Progress,
		&g.StartDate,
		&g.EndDate,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
}

// List returns goals matching the filter with their milestone and task trees
// fully hydrated, in insertion order.
func (r *GoalRepository) List(ctx context.Context, f GoalFilter) ([]model.Goal, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("list", "goals", time.Since(start))
	}()

	query := "SELECT " + goalColumns + " FROM goals"
	var conds []string
	var args []any
	argIdx := 1

	if f.Year != 0 {
		conds = append(conds, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, f.Year)
		argIdx++
	}
	if f.Quarter != "" {
		conds = append(conds, fmt.Sprintf("quarter = $%d", argIdx))
		args = append(args, f.Quarter)
		argIdx++
	}
	if f.Team != "" {
		conds = append(conds, fmt.Sprintf("team = $%d", argIdx))
		args = append(args, f.Team)
		argIdx++
	}
	if f.Product != "" {
		conds = append(conds, fmt.Sprintf("product = $%d", argIdx))
		args = append(args, f.Product)
		argIdx++
	}
	if f.Type != "" {
		conds = append(conds, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, f.Type)
		argIdx++
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list goals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	goals := []model.Goal{}
	for rows.Next() {
		var g model.Goal
		if err := scanGoal(rows, &g); err != nil {
			r.logger.Error("Failed to scan goal", zap.Error(err))
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachChildren(ctx, goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id int) (*model.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals WHERE id = $1"

	var g model.Goal
	err := scanGoal(r.db.QueryRow(ctx, query, id), &g)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	goals := []model.Goal{g}
	if err := r.attachChildren(ctx, goals); err != nil {
		return nil, err
	}
	return &goals[0], nil
}

func (r *GoalRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM goals WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// attachChildren loads milestones and tasks for the given goals in two
// batched queries and assembles the tree in memory.
func (r *GoalRepository) attachChildren(ctx context.Context, goals []model.Goal) error {
	if len(goals) == 0 {
		return nil
	}

	goalIDs := make([]int, len(goals))
	for i := range goals {
		goalIDs[i] = goals[i].ID
		goals[i].Milestones = []model.Milestone{}
	}

	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE goal_id = ANY($1)
        ORDER BY id ASC
    `
	rows, err := r.db.Query(ctx, query, goalIDs)
	if err != nil {
		r.logger.Error("Failed to load milestones", zap.Error(err))
		return err
	}
	defer rows.Close()

	var milestones []model.Milestone
	var milestoneIDs []int
	for rows.Next() {
		var m model.Milestone
		if err := scanMilestone(rows, &m); err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return err
		}
		m.Tasks = []model.Task{}
		milestones = append(milestones, m)
		milestoneIDs = append(milestoneIDs, m.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tasksByMilestone, err := r.loadTasks(ctx, milestoneIDs)
	if err != nil {
		return err
	}

	byGoal := make(map[int][]model.Milestone)
	for _, m := range milestones {
		if tasks, ok := tasksByMilestone[m.ID]; ok {
			m.Tasks = tasks
		}
		byGoal[m.GoalID] = append(byGoal[m.GoalID], m)
	}

	for i := range goals {
		if ms, ok := byGoal[goals[i].ID]; ok {
			goals[i].Milestones = ms
		}
	}
	return nil
}

func (r *GoalRepository) loadTasks(ctx context.Context, milestoneIDs []int) (map[int][]model.Task, error) {
	byMilestone := make(map[int][]model.Task)
	if len(milestoneIDs) == 0 {
		return byMilestone, nil
	}

	query := taskWithAssigneeSelect + `
        WHERE t.milestone_id = ANY($1)
        ORDER BY t.id ASC
    `
	rows, err := r.db.Query(ctx, query, milestoneIDs)
	if err != nil {
		r.logger.Error("Failed to load tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Task
		if err := scanTaskWithAssignee(rows, &t); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		byMilestone[t.MilestoneID] = append(byMilestone[t.MilestoneID], t)
	}
	return byMilestone, rows.Err()
}

func (r *GoalRepository) Insert(ctx context.Context, g *model.Goal) error {
	query := `
        INSERT INTO goals (type, title, description, expected_effect, year, quarter, team, product, progress, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		g.Type,
		g.Title,
		g.Description,
		g.ExpectedEffect,
		g.Year,
		g.Quarter,
		g.Team,
		g.Product,
		g.Progress,
		g.StartDate,
		g.EndDate,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert goal", zap.Error(err))
		return err
	}

	g.Milestones = []model.Milestone{}
	r.logger.Info("Goal inserted successfully",
		zap.Int("id", g.ID),
		zap.String("type", g.Type),
		zap.Int("year", g.Year),
	)
	return nil
}

func (r *GoalRepository) Update(ctx context.Context, id int, patch model.GoalPatch) (*model.Goal, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	add := func(clause string, value any) {
		setClauses = append(setClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Type != nil {
		add("type = $%d", *patch.Type)
	}
	if patch.Title != nil {
		add("title = $%d", *patch.Title)
	}
	if patch.Description != nil {
		add("description = NULLIF($%d, '')", *patch.Description)
	}
	if patch.ExpectedEffect != nil {
		add("expected_effect = NULLIF($%d, '')", *patch.ExpectedEffect)
	}
	if patch.Year != nil {
		add("year = $%d", *patch.Year)
	}
	if patch.Quarter != nil {
		add("quarter = NULLIF($%d, '')", *patch.Quarter)
	}
	if patch.Team != nil {
		add("team = NULLIF($%d, '')", *patch.Team)
	}
	if patch.Product != nil {
		add("product = NULLIF($%d, '')", *patch.Product)
	}
	if patch.Progress != nil {
		add("progress = $%d", *patch.Progress)
	}
	if patch.StartDate != nil {
		add("start_date = $%d", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date = $%d", *patch.EndDate)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE goals SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update goal", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a goal. Milestones and their tasks go with it through the
// FK cascade rules.
func (r *GoalRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM goals WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete goal", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Goal deleted successfully", zap.Int("id", id))
	return nil
}

func (r *GoalRepository) DistinctYears(ctx context.Context) ([]int, error) {
	return distinctYears(ctx, r.db, "goals")
}
