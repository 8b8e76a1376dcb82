package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AdminRepository holds destructive maintenance operations that are only
// wired up when test endpoints are enabled.
type AdminRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAdminRepository(db *pgxpool.Pool, logger *zap.Logger) *AdminRepository {
	return &AdminRepository{db: db, logger: logger}
}

// ResetAll wipes every table in one transaction, children before parents.
func (r *AdminRepository) ResetAll(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tables := []string{"comments", "ideas", "tasks", "milestones", "goals", "members"}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			r.logger.Error("Failed to reset table", zap.String("table", table), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	r.logger.Warn("All data has been deleted")
	return nil
}
