package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/internal/service/auth"
)

type authServiceMock struct {
	RegisterFunc      func(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error)
	LoginFunc         func(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error)
	RefreshFunc       func(ctx context.Context, input auth.RefreshInput) (*auth.AuthResult, error)
	LogoutFunc        func(ctx context.Context) error
	ValidateTokenFunc func(ctx context.Context, token string) (uuid.UUID, domain.UserRole, error)
}

func (m *authServiceMock) Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error) {
	return m.RegisterFunc(ctx, input)
}

func (m *authServiceMock) Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error) {
	return m.LoginFunc(ctx, input)
}

func (m *authServiceMock) Refresh(ctx context.Context, input auth.RefreshInput) (*auth.AuthResult, error) {
	return m.RefreshFunc(ctx, input)
}

func (m *authServiceMock) Logout(ctx context.Context) error {
	return m.LogoutFunc(ctx)
}

func (m *authServiceMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, domain.UserRole, error) {
	return m.ValidateTokenFunc(ctx, token)
}

func testAuthResult() *auth.AuthResult {
	return &auth.AuthResult{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User: &domain.User{
			ID:       uuid.New(),
			Email:    "jane@example.com",
			Username: "jane",
			FullName: "Jane Citizen",
			Role:     domain.UserRoleCitizen,
		},
	}
}

func TestAuthHandler_Register_Created(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		RegisterFunc: func(_ context.Context, input auth.RegisterInput) (*auth.AuthResult, error) {
			if input.Email != "jane@example.com" {
				t.Errorf("expected email jane@example.com, got %q", input.Email)
			}
			return testAuthResult(), nil
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	body := `{"email":"jane@example.com","username":"jane","fullName":"Jane Citizen","password":"correct-horse-battery"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens in response")
	}
	if resp.User.Role != "citizen" {
		t.Errorf("expected role citizen, got %q", resp.User.Role)
	}
}

func TestAuthHandler_Register_DuplicateEmail409(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		RegisterFunc: func(_ context.Context, _ auth.RegisterInput) (*auth.AuthResult, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"email":"jane@example.com","username":"jane","password":"correct-horse-battery"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_WrongPassword401(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		LoginFunc: func(_ context.Context, _ auth.LoginInput) (*auth.AuthResult, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"jane@example.com","password":"a-wrong-guess"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidBody400(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&authServiceMock{}, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_Rotates(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		RefreshFunc: func(_ context.Context, input auth.RefreshInput) (*auth.AuthResult, error) {
			if input.RefreshToken != "old-token" {
				t.Errorf("expected refresh token old-token, got %q", input.RefreshToken)
			}
			return testAuthResult(), nil
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refreshToken":"old-token"}`))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_MissingToken401(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&authServiceMock{}, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_OK(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	logoutCalled := false
	svc := &authServiceMock{
		ValidateTokenFunc: func(_ context.Context, token string) (uuid.UUID, domain.UserRole, error) {
			if token != "valid-token" {
				t.Errorf("expected token valid-token, got %q", token)
			}
			return userID, domain.UserRoleCitizen, nil
		},
		LogoutFunc: func(_ context.Context) error {
			logoutCalled = true
			return nil
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !logoutCalled {
		t.Error("expected Logout to be called")
	}
}
