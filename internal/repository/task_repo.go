package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roadmap-service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TaskFilter narrows task listings. Zero values mean no filtering.
type TaskFilter struct {
	MilestoneID int
	AssigneeID  int
}

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskWithAssigneeSelect = `
        SELECT t.id, t.milestone_id, t.title, t.description, t.assignee_id,
               t.start_date, t.due_date, t.progress, t.created_at, t.updated_at,
               m.id, m.name, m.role, m.team, m.type, m.join_date, m.year, m.created_at, m.updated_at
        FROM tasks t
        LEFT JOIN members m ON m.id = t.assignee_id`

// scanTaskWithAssignee scans one row of taskWithAssigneeSelect, building the
// embedded assignee when the left join matched.
func scanTaskWithAssignee(row pgx.Row, t *model.Task) error {
	var (
		memberID      *int
		memberName    *string
		memberRole    *string
		memberTeam    *string
		memberType    *string
		memberJoin    *model.Date
		memberYear    *int
		memberCreated *time.Time
		memberUpdated *time.Time
	)

	err := row.Scan(
		&t.ID,
		&t.MilestoneID,
		&t.Title,
		&t.Description,
		&t.AssigneeID,
		&t.StartDate,
		&t.DueDate,
		&t.Progress,
		&t.CreatedAt,
		&t.UpdatedAt,
		&memberID,
		&memberName,
		&memberRole,
		&memberTeam,
		&memberType,
		&memberJoin,
		&memberYear,
		&memberCreated,
		&memberUpdated,
	)
	if err != nil {
		return err
	}

	if memberID != nil {
		t.Assignee = &model.Member{
			ID:        *memberID,
			Name:      *memberName,
			Role:      *memberRole,
			Team:      memberTeam,
			Type:      *memberType,
			JoinDate:  memberJoin,
			Year:      *memberYear,
			CreatedAt: *memberCreated,
			UpdatedAt: *memberUpdated,
		}
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	query := taskWithAssigneeSelect
	var conds []string
	var args []any
	argIdx := 1

	if f.MilestoneID != 0 {
		conds = append(conds, fmt.Sprintf("t.milestone_id = $%d", argIdx))
		args = append(args, f.MilestoneID)
		argIdx++
	}
	if f.AssigneeID != 0 {
		conds = append(conds, fmt.Sprintf("t.assignee_id = $%d", argIdx))
		args = append(args, f.AssigneeID)
		argIdx++
	}
	if len(conds) > 0 {
		query += "\n        WHERE " + strings.Join(conds, " AND ")
	}
	query += "\n        ORDER BY t.id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := scanTaskWithAssignee(rows, &t); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	query := taskWithAssigneeSelect + "\n        WHERE t.id = $1"

	var t model.Task
	err := scanTaskWithAssignee(r.db.QueryRow(ctx, query, id), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (milestone_id, title, description, assignee_id, start_date, due_date, progress)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.MilestoneID,
		t.Title,
		t.Description,
		t.AssigneeID,
		t.StartDate,
		t.DueDate,
		t.Progress,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err))
		return err
	}

	r.logger.Info("Task inserted successfully",
		zap.Int("id", t.ID),
		zap.Int("milestone_id", t.MilestoneID),
	)
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, id int, patch model.TaskPatch) (*model.Task, error) {
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
	if patch.AssigneeID != nil {
		add("assignee_id = NULLIF($%d, 0)", *patch.AssigneeID)
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

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Task deleted successfully", zap.Int("id", id))
	return nil
}
