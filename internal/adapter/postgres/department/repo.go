// Package department implements the Department repository using PostgreSQL.
package department

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// Repo provides department persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new department repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getDepartmentSQL = `SELECT id, name, description, created_at
	FROM departments WHERE id = $1`

// GetByID returns a department by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var d domain.Department
	err := q.QueryRow(ctx, getDepartmentSQL, id).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "department", id)
	}

	return &d, nil
}

const listDepartmentsSQL = `SELECT id, name, description, created_at
	FROM departments ORDER BY name ASC`

// List returns all departments ordered by name.
func (r *Repo) List(ctx context.Context) ([]*domain.Department, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listDepartmentsSQL)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []*domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	return departments, nil
}
