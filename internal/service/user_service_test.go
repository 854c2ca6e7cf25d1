package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users         map[string]*model.User
	refreshTokens map[string]*model.RefreshToken
	nextID        uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:         make(map[string]*model.User),
		refreshTokens: make(map[string]*model.RefreshToken),
		nextID:        1,
	}
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.Email] = user
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (s *stubUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	s.refreshTokens[token.Token] = token
	return nil
}

func (s *stubUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	rt, ok := s.refreshTokens[token]
	if !ok {
		return nil, errors.New("record not found")
	}
	return rt, nil
}

func (s *stubUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(s.refreshTokens, token)
	return nil
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "admin-secret")

	user, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected user role, got %q", user.Role)
	}

	// Password must be stored hashed
	stored := repo.users["ana@example.com"]
	if stored.Password == "secret123" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")); err != nil {
		t.Errorf("stored password does not verify: %v", err)
	}
}

func TestRegisterAdminRequiresSecret(t *testing.T) {
	tests := []struct {
		name        string
		adminSecret string
		reqSecret   string
		wantErr     bool
	}{
		{"correct secret", "admin-secret", "admin-secret", false},
		{"wrong secret", "admin-secret", "nope", true},
		{"empty request secret", "admin-secret", "", true},
		{"secret not configured", "", "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(newStubUserRepo(), tt.adminSecret)

			user, err := svc.Register(context.Background(), RegisterUserRequest{
				Username: "root",
				Email:    "root@example.com",
				Password: "secret123",
				Role:     model.RoleAdmin,
				Secret:   tt.reqSecret,
			})
			if tt.wantErr {
				if err == nil {
					t.Error("expected admin registration to be rejected")
				}
				return
			}
			if err != nil {
				t.Fatalf("Register failed: %v", err)
			}
			if user.Role != model.RoleAdmin {
				t.Errorf("expected admin role, got %q", user.Role)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "")

	req := RegisterUserRequest{Username: "ana", Email: "ana@example.com", Password: "secret123"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestLoginAndRefreshRotation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "")

	if _, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tokens, err := svc.Login(context.Background(), LoginUserRequest{Email: "ana@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tokens.Token == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}

	// Attach the user so the stub mirrors the Preload the real repo does
	repo.refreshTokens[tokens.RefreshToken].User = *repo.users["ana@example.com"]

	rotated, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("expected the refresh token to rotate")
	}

	// The consumed token is gone
	if _, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); err == nil {
		t.Error("expected the old refresh token to be rejected")
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "")

	repo.refreshTokens["old"] = &model.RefreshToken{
		Token:     "old",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if _, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "old"}); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	if _, ok := repo.refreshTokens["old"]; ok {
		t.Error("expected expired token to be purged")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "")

	if _, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginUserRequest{Email: "ana@example.com", Password: "wrong"}); err == nil {
		t.Error("expected login to fail with wrong password")
	}
}
