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

// MemberFilter narrows member listings. Zero values mean no filtering.
type MemberFilter struct {
	Year int
	Team string
	Type string
}

type MemberRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMemberRepository(db *pgxpool.Pool, logger *zap.Logger) *MemberRepository {
	return &MemberRepository{db: db, logger: logger}
}

const memberColumns = "id, name, role, team, type, join_date, year, created_at, updated_at"

func scanMember(row pgx.Row, m *model.Member) error {
	return row.Scan(
		&m.ID,
		&m.Name,
		&m.Role,
		&m.Team,
		&m.Type,
		&m.JoinDate,
		&m.Year,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

func (r *MemberRepository) List(ctx context.Context, f MemberFilter) ([]model.Member, error) {
	query := "SELECT " + memberColumns + " FROM members"
	var conds []string
	var args []any
	argIdx := 1

	if f.Year != 0 {
		conds = append(conds, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, f.Year)
		argIdx++
	}
	if f.Team != "" {
		conds = append(conds, fmt.Sprintf("team = $%d", argIdx))
		args = append(args, f.Team)
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
		r.logger.Error("Failed to list members", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := scanMember(rows, &m); err != nil {
			r.logger.Error("Failed to scan member", zap.Error(err))
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *MemberRepository) FindByID(ctx context.Context, id int) (*model.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE id = $1"

	var m model.Member
	err := scanMember(r.db.QueryRow(ctx, query, id), &m)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r *MemberRepository) Insert(ctx context.Context, m *model.Member) error {
	query := `
        INSERT INTO members (name, role, team, type, join_date, year)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		m.Name,
		m.Role,
		m.Team,
		m.Type,
		m.JoinDate,
		m.Year,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert member", zap.Error(err))
		return err
	}

	r.logger.Info("Member inserted successfully",
		zap.Int("id", m.ID),
		zap.String("name", m.Name),
	)
	return nil
}

// Update applies only the fields set on the patch and returns the fresh row.
func (r *MemberRepository) Update(ctx context.Context, id int, patch model.MemberPatch) (*model.Member, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	if patch.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *patch.Name)
		argIdx++
	}
	if patch.Role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *patch.Role)
		argIdx++
	}
	if patch.Team != nil {
		setClauses = append(setClauses, fmt.Sprintf("team = NULLIF($%d, '')", argIdx))
		args = append(args, *patch.Team)
		argIdx++
	}
	if patch.Type != nil {
		setClauses = append(setClauses, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *patch.Type)
		argIdx++
	}
	if patch.JoinDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("join_date = $%d", argIdx))
		args = append(args, *patch.JoinDate)
		argIdx++
	}
	if patch.Year != nil {
		setClauses = append(setClauses, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, *patch.Year)
		argIdx++
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE members SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update member", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a member. Tasks referencing it keep running with their
// assignee cleared by the FK SET NULL rule.
func (r *MemberRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM members WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete member", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Member deleted successfully", zap.Int("id", id))
	return nil
}

func (r *MemberRepository) DistinctYears(ctx context.Context) ([]int, error) {
	return distinctYears(ctx, r.db, "members")
}
