package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with the given role. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "testuser-" + suffix + "@example.com",
		Username:     "testuser-" + suffix,
		FullName:     "Test User " + suffix,
		PasswordHash: "$2a$10$seeded.hash.placeholder",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, username, full_name, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Username, user.FullName, user.PasswordHash,
		string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedDepartment creates a department. Returns a filled domain.Department.
func SeedDepartment(t *testing.T, pool *pgxpool.Pool) domain.Department {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	dept := domain.Department{
		ID:          uuid.New(),
		Name:        "Department " + suffix,
		Description: "Test department " + suffix,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO departments (id, name, description, created_at)
		 VALUES ($1, $2, $3, $4)`,
		dept.ID, dept.Name, dept.Description, dept.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDepartment insert: %v", err)
	}

	return dept
}

// SeedIssue creates an issue authored by authorID with the given status.
// Returns a filled domain.Issue.
func SeedIssue(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID, status domain.IssueStatus) domain.Issue {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	iss := domain.Issue{
		ID:          uuid.New(),
		Title:       "Test issue " + suffix,
		Description: "Seeded issue " + suffix,
		Category:    domain.IssueCategoryInfrastructure,
		Status:      status,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO issues (id, title, description, category, status, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		iss.ID, iss.Title, iss.Description, string(iss.Category), string(iss.Status),
		iss.AuthorID, iss.CreatedAt, iss.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedIssue insert: %v", err)
	}

	return iss
}

// SeedWatcher registers userID as a watcher of issueID.
func SeedWatcher(t *testing.T, pool *pgxpool.Pool, issueID, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO issue_watchers (issue_id, user_id, created_at) VALUES ($1, $2, $3)`,
		issueID, userID, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWatcher insert: %v", err)
	}
}
