package issue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/issue"
	"github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/testhelper"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*issue.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return issue.New(pool), pool
}

// ---------------------------------------------------------------------------
// Create / GetByID tests
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)

	now := time.Now().UTC().Truncate(time.Microsecond)
	input := domain.Issue{
		ID:          uuid.New(),
		Title:       "Burst pipe on Main Road",
		Description: "Water flooding the intersection",
		Category:    domain.IssueCategoryUtilities,
		Status:      domain.IssueStatusOpen,
		AuthorID:    author.ID,
		CreatedAt:   now,
	}

	got, err := repo.Create(ctx, &input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID != input.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, input.ID)
	}
	if got.Status != domain.IssueStatusOpen {
		t.Errorf("Status: got %s, want open", got.Status)
	}
	if got.VoteCount != 0 || got.WatcherCount != 0 {
		t.Errorf("counts must start at zero, got votes=%d watchers=%d", got.VoteCount, got.WatcherCount)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus tests
// ---------------------------------------------------------------------------

func TestRepo_UpdateStatus_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	official := testhelper.SeedUser(t, pool, domain.UserRoleOfficial)
	iss := testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusOpen)

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := repo.UpdateStatus(ctx, iss.ID, domain.IssueStatusOpen, domain.IssueStatusInProgress, official.ID, now)
	if err != nil {
		t.Fatalf("UpdateStatus: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, iss.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.IssueStatusInProgress {
		t.Errorf("Status: got %s, want in_progress", got.Status)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, now)
	}
	if got.ResolvedAt != nil {
		t.Error("ResolvedAt must stay nil for non-resolved status")
	}
}

func TestRepo_UpdateStatus_SetsResolvedFields(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	official := testhelper.SeedUser(t, pool, domain.UserRoleOfficial)
	iss := testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusInProgress)

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := repo.UpdateStatus(ctx, iss.ID, domain.IssueStatusInProgress, domain.IssueStatusResolved, official.ID, now)
	if err != nil {
		t.Fatalf("UpdateStatus: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, iss.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(now) {
		t.Errorf("ResolvedAt: got %v, want %v", got.ResolvedAt, now)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != official.ID {
		t.Errorf("ResolvedBy: got %v, want %s", got.ResolvedBy, official.ID)
	}
}

func TestRepo_UpdateStatus_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.UpdateStatus(context.Background(), uuid.New(),
		domain.IssueStatusOpen, domain.IssueStatusInProgress, uuid.New(), time.Now().UTC())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_UpdateStatus_ConflictOnStaleStatus(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	official := testhelper.SeedUser(t, pool, domain.UserRoleOfficial)
	// Issue is already in_progress; a writer holding a stale "open" read loses.
	iss := testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusInProgress)

	err := repo.UpdateStatus(ctx, iss.ID, domain.IssueStatusOpen, domain.IssueStatusResolved, official.ID, time.Now().UTC())
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	got, err := repo.GetByID(ctx, iss.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.IssueStatusInProgress {
		t.Errorf("status must be unchanged, got %s", got.Status)
	}
}

// ---------------------------------------------------------------------------
// Counter adjustment tests
// ---------------------------------------------------------------------------

func TestRepo_AdjustVoteCount(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	iss := testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusOpen)

	now := time.Now().UTC()
	if err := repo.AdjustVoteCount(ctx, iss.ID, 1, now); err != nil {
		t.Fatalf("AdjustVoteCount(+1): %v", err)
	}
	if err := repo.AdjustVoteCount(ctx, iss.ID, 1, now); err != nil {
		t.Fatalf("AdjustVoteCount(+1): %v", err)
	}
	if err := repo.AdjustVoteCount(ctx, iss.ID, -1, now); err != nil {
		t.Fatalf("AdjustVoteCount(-1): %v", err)
	}

	got, err := repo.GetByID(ctx, iss.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VoteCount != 1 {
		t.Errorf("VoteCount: got %d, want 1", got.VoteCount)
	}
}

func TestRepo_AdjustVoteCount_FlooredAtZero(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	iss := testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusOpen)

	if err := repo.AdjustVoteCount(ctx, iss.ID, -5, time.Now().UTC()); err != nil {
		t.Fatalf("AdjustVoteCount(-5): %v", err)
	}

	got, err := repo.GetByID(ctx, iss.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VoteCount != 0 {
		t.Errorf("VoteCount: got %d, want 0", got.VoteCount)
	}
}

// ---------------------------------------------------------------------------
// List / Stats tests
// ---------------------------------------------------------------------------

func TestRepo_List_FilterByStatus(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)

	testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusOpen)
	testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusResolved)

	status := domain.IssueStatusResolved
	got, total, err := repo.List(ctx, domain.IssueFilter{AuthorID: &author.ID, Status: &status})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("total: got %d, want 1", total)
	}
	if len(got) != 1 || got[0].Status != domain.IssueStatusResolved {
		t.Errorf("expected single resolved issue, got %d rows", len(got))
	}
}

func TestRepo_List_Search(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	iss := testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusOpen)

	search := iss.Title
	got, total, err := repo.List(ctx, domain.IssueFilter{AuthorID: &author.ID, Search: &search})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("expected exactly one match, got total=%d rows=%d", total, len(got))
	}
	if got[0].ID != iss.ID {
		t.Errorf("ID: got %s, want %s", got[0].ID, iss.ID)
	}
}

func TestRepo_Stats_ScopedByDepartment(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	author := testhelper.SeedUser(t, pool, domain.UserRoleCitizen)
	dept := testhelper.SeedDepartment(t, pool)

	// Two issues in the department, one open one resolved.
	for _, status := range []domain.IssueStatus{domain.IssueStatusOpen, domain.IssueStatusResolved} {
		iss := testhelper.SeedIssue(t, pool, author.ID, status)
		if _, err := pool.Exec(ctx, `UPDATE issues SET department_id = $2 WHERE id = $1`, iss.ID, dept.ID); err != nil {
			t.Fatalf("assign department: %v", err)
		}
	}
	// Noise outside the department.
	testhelper.SeedIssue(t, pool, author.ID, domain.IssueStatusOpen)

	stats, err := repo.Stats(ctx, &dept.ID)
	if err != nil {
		t.Fatalf("Stats: unexpected error: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("Total: got %d, want 2", stats.Total)
	}
	if stats.Open != 1 || stats.Resolved != 1 {
		t.Errorf("counts: got open=%d resolved=%d, want 1/1", stats.Open, stats.Resolved)
	}
	if stats.ResolutionRate != 0.5 {
		t.Errorf("ResolutionRate: got %v, want 0.5", stats.ResolutionRate)
	}
}
