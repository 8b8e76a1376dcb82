package repository

import (
	"context"

	"roadmap-service/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CommentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCommentRepository(db *pgxpool.Pool, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{db: db, logger: logger}
}

func (r *CommentRepository) ListByIdea(ctx context.Context, ideaID int) ([]model.Comment, error) {
	query := `
        SELECT id, idea_id, author, content, created_at
        FROM comments
        WHERE idea_id = $1
        ORDER BY id ASC
    `
	rows, err := r.db.Query(ctx, query, ideaID)
	if err != nil {
		r.logger.Error("Failed to list comments", zap.Int("idea_id", ideaID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.IdeaID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			r.logger.Error("Failed to scan comment", zap.Error(err))
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) Insert(ctx context.Context, c *model.Comment) error {
	query := `
        INSERT INTO comments (idea_id, author, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, c.IdeaID, c.Author, c.Content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert comment", zap.Int("idea_id", c.IdeaID), zap.Error(err))
		return err
	}

	r.logger.Info("Comment inserted successfully",
		zap.Int("id", c.ID),
		zap.Int("idea_id", c.IdeaID),
	)
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete comment", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Comment deleted successfully", zap.Int("id", id))
	return nil
}
