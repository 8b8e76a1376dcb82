package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roadmap-service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{db: db, logger: logger}
}

const milestoneColumns = "id, goal_id, title, description, start_date, due_date, progress, created_at, updated_at"

func scanMilestone(row pgx.Row, m *model.Milestone) error {
	return row.Scan(
		&m.ID,
		&m.GoalID,
		&m.Title,
		&m.Description,
		&m.StartDate,
		&m.DueDate,
		&m.Progress,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

// List returns milestones, optionally restricted to one goal, with their
// tasks and task assignees hydrated.
func (r *MilestoneRepository) List(ctx context.Context, goalID int) ([]model.Milestone, error) {
	query := "SELECT " + milestoneColumns + " FROM milestones"
	var args []any
	if goalID != 0 {
		query += " WHERE goal_id = $1"
		args = append(args, goalID)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list milestones", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		if err := scanMilestone(rows, &m); err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return nil, err
		}
		m.Tasks = []model.Task{}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTasks(ctx, milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

func (r *MilestoneRepository) FindByID(ctx context.Context, id int) (*model.Milestone, error) {
	query := "SELECT " + milestoneColumns + " FROM milestones WHERE id = $1"

	var m model.Milestone
	err := scanMilestone(r.db.QueryRow(ctx, query, id), &m)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Tasks = []model.Task{}

	milestones := []model.Milestone{m}
	if err := r.attachTasks(ctx, milestones); err != nil {
		return nil, err
	}
	return &milestones[0], nil
}

func (r *MilestoneRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM milestones WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r *MilestoneRepository) attachTasks(ctx context.Context, milestones []model.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}

	ids := make([]int, len(milestones))
	for i := range milestones {
		ids[i] = milestones[i].ID
	}

	query := taskWithAssigneeSelect + `
        WHERE t.milestone_id = ANY($1)
        ORDER BY t.id ASC
    `
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to load tasks for milestones", zap.Error(err))
		return err
	}
	defer rows.Close()

	byMilestone := make(map[int][]model.Task)
	for rows.Next() {
		var t model.Task
		if err := scanTaskWithAssignee(rows, &t); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return err
		}
		byMilestone[t.MilestoneID] = append(byMilestone[t.MilestoneID], t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range milestones {
		if tasks, ok := byMilestone[milestones[i].ID]; ok {
			milestones[i].Tasks = tasks
		}
	}
	return nil
}

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	query := `
        INSERT INTO milestones (goal_id, title, description, start_date, due_date, progress)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		m.GoalID,
		m.Title,
		m.Description,
		m.StartDate,
		m.DueDate,
		m.Progress,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert milestone", zap.Error(err))
		return err
	}

	m.Tasks = []model.Task{}
	r.logger.Info("Milestone inserted successfully",
		zap.Int("id", m.ID),
		zap.Int("goal_id", m.GoalID),
	)
	return nil
}

func (r *MilestoneRepository) Update(ctx context.Context, id int, patch model.MilestonePatch) (*model.Milestone, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	add := func(clause string, value any) {
		setClauses = append(setClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Title != nil {
		add("title = $%d", *patch.Title)
	}
	if patch.Description != nil {
		add("description = NULLIF($%d, '')", *patch.Description)
	}
	if patch.StartDate != nil {
		add("start_date = $%d", *patch.StartDate)
	}
	if patch.DueDate != nil {
		add("due_date = $%d", *patch.DueDate)
	}
	if patch.Progress != nil {
		add("progress = $%d", *patch.Progress)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE milestones SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update milestone", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a milestone and, through the FK cascade, its tasks.
func (r *MilestoneRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM milestones WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete milestone", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Milestone deleted successfully", zap.Int("id", id))
	return nil
}
