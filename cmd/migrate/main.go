package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"roadmap-service/internal/config"
	"roadmap-service/pkg/db"
	"roadmap-service/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Applies every pending *.up.sql from the migrations directory in name
// order, recording applied files in schema_migrations.
func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect", zap.Error(err))
	}
	defer pool.Close()

	ctx := context.Background()

	if _, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            filename   TEXT PRIMARY KEY,
            applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `); err != nil {
		log.Fatal("Failed to create schema_migrations", zap.Error(err))
	}

	dir := migrationDir()
	for _, file := range collectUpFiles(log, dir) {
		applied, err := isApplied(ctx, pool, file)
		if err != nil {
			log.Fatal("Failed to check migration state", zap.String("file", file), zap.Error(err))
		}
		if applied {
			continue
		}

		if err := apply(ctx, pool, dir, file); err != nil {
			log.Fatal("Migration failed", zap.String("file", file), zap.Error(err))
		}
		log.Info("Migration applied", zap.String("file", file))
	}

	log.Info("Migrations up to date")
}

func migrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

func collectUpFiles(log *zap.Logger, dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal("Failed to read migrations dir", zap.String("dir", dir), zap.Error(err))
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

func isApplied(ctx context.Context, pool *pgxpool.Pool, file string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)", file).Scan(&exists)
	return exists, err
}

func apply(ctx context.Context, pool *pgxpool.Pool, dir, file string) error {
	sqlBytes, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (filename) VALUES ($1)", file); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
