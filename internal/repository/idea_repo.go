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

// IdeaFilter narrows idea listings. Zero values mean no filtering.
type IdeaFilter struct {
	Year    int
	Status  string
	Product string
}

type IdeaRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIdeaRepository(db *pgxpool.Pool, logger *zap.Logger) *IdeaRepository {
	return &IdeaRepository{db: db, logger: logger}
}

const ideaColumns = "id, type, title, description, year, product, priority, status, created_at, updated_at"

func scanIdea(row pgx.Row, i *model.Idea) error {
	return row.Scan(
		&i.ID,
		&i.Type,
		&i.Title,
		&i.Description,
		&i.Year,
		&i.Product,
		&i.Priority,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

// List returns ideas ordered by priority first (high before low), newest
// first within the same priority, with comments hydrated.
func (r *IdeaRepository) List(ctx context.Context, f IdeaFilter) ([]model.Idea, error) {
	query := "SELECT " + ideaColumns + " FROM ideas"
	var conds []string
	var args []any
	argIdx := 1

	if f.Year != 0 {
		conds = append(conds, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, f.Year)
		argIdx++
	}
	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, f.Status)
		argIdx++
	}
	if f.Product != "" {
		conds = append(conds, fmt.Sprintf("product = $%d", argIdx))
		args = append(args, f.Product)
		argIdx++
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY priority ASC, created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list ideas", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	ideas := []model.Idea{}
	for rows.Next() {
		var i model.Idea
		if err := scanIdea(rows, &i); err != nil {
			r.logger.Error("Failed to scan idea", zap.Error(err))
			return nil, err
		}
		i.Comments = []model.Comment{}
		ideas = append(ideas, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachComments(ctx, ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (r *IdeaRepository) FindByID(ctx context.Context, id int) (*model.Idea, error) {
	query := "SELECT " + ideaColumns + " FROM ideas WHERE id = $1"

	var i model.Idea
	err := scanIdea(r.db.QueryRow(ctx, query, id), &i)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	i.Comments = []model.Comment{}

	ideas := []model.Idea{i}
	if err := r.attachComments(ctx, ideas); err != nil {
		return nil, err
	}
	return &ideas[0], nil
}

func (r *IdeaRepository) attachComments(ctx context.Context, ideas []model.Idea) error {
	if len(ideas) == 0 {
		return nil
	}

	ids := make([]int, len(ideas))
	for i := range ideas {
		ids[i] = ideas[i].ID
	}

	query := `
        SELECT id, idea_id, author, content, created_at
        FROM comments
        WHERE idea_id = ANY($1)
        ORDER BY id ASC
    `
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to load comments", zap.Error(err))
		return err
	}
	defer rows.Close()

	byIdea := make(map[int][]model.Comment)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.IdeaID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			r.logger.Error("Failed to scan comment", zap.Error(err))
			return err
		}
		byIdea[c.IdeaID] = append(byIdea[c.IdeaID], c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range ideas {
		if comments, ok := byIdea[ideas[i].ID]; ok {
			ideas[i].Comments = comments
		}
	}
	return nil
}

func (r *IdeaRepository) Insert(ctx context.Context, i *model.Idea) error {
	query := `
        INSERT INTO ideas (type, title, description, year, product, priority, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		i.Type,
		i.Title,
		i.Description,
		i.Year,
		i.Product,
		i.Priority,
		i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert idea", zap.Error(err))
		return err
	}

	i.Comments = []model.Comment{}
	r.logger.Info("Idea inserted successfully",
		zap.Int("id", i.ID),
		zap.String("type", i.Type),
	)
	return nil
}

func (r *IdeaRepository) Update(ctx context.Context, id int, patch model.IdeaPatch) (*model.Idea, error) {
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
	if patch.Year != nil {
		add("year = $%d", *patch.Year)
	}
	if patch.Product != nil {
		add("product = NULLIF($%d, '')", *patch.Product)
	}
	if patch.Priority != nil {
		add("priority = $%d", *patch.Priority)
	}
	if patch.Status != nil {
		add("status = $%d", *patch.Status)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE ideas SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update idea", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes an idea and, through the FK cascade, its comments.
func (r *IdeaRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM ideas WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete idea", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Idea deleted successfully", zap.Int("id", id))
	return nil
}

// ConvertToGoal promotes an idea into a goal. The goal insert and the idea
// status change commit as one transaction; comments stay untouched.
// Returns ErrNotFound for a missing idea and ErrAlreadyConverted when the
// idea has already been promoted.
func (r *IdeaRepository) ConvertToGoal(ctx context.Context, ideaID int) (*model.Goal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the idea row so two concurrent conversions cannot both pass
	// the status check.
	var idea model.Idea
	err = scanIdea(tx.QueryRow(ctx,
		"SELECT "+ideaColumns+" FROM ideas WHERE id = $1 FOR UPDATE", ideaID), &idea)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if idea.Status == model.IdeaStatusConverted {
		return nil, ErrAlreadyConverted
	}

	goal := model.Goal{
		Type:        idea.Type,
		Title:       idea.Title,
		Description: idea.Description,
		Year:        idea.Year,
		Product:     idea.Product,
		Progress:    0,
		Milestones:  []model.Milestone{},
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO goals (type, title, description, year, product, progress)
        VALUES ($1, $2, $3, $4, $5, 0)
        RETURNING id, created_at, updated_at
    `,
		goal.Type,
		goal.Title,
		goal.Description,
		goal.Year,
		goal.Product,
	).Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert goal from idea",
			zap.Int("idea_id", ideaID),
			zap.Error(err),
		)
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE ideas SET status = $1, updated_at = NOW() WHERE id = $2",
		model.IdeaStatusConverted, ideaID)
	if err != nil {
		r.logger.Error("Failed to mark idea converted",
			zap.Int("idea_id", ideaID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}

	r.logger.Info("Idea converted to goal",
		zap.Int("idea_id", ideaID),
		zap.Int("goal_id", goal.ID),
	)
	return &goal, nil
}

func (r *IdeaRepository) DistinctYears(ctx context.Context) ([]int, error) {
	return distinctYears(ctx, r.db, "ideas")
}
