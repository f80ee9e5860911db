package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

type mockUserRepo struct {
	users  map[string]models.User
	tokens map[string]models.RefreshToken
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]models.User),
		tokens: make(map[string]models.RefreshToken),
	}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	user := m.users[id]
	user.LastLogin = &ts
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	user := m.users[id]
	user.PasswordHash = passwordHash
	user.UpdatedAt = updatedAt
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = *token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	found, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &found, nil
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for key, token := range m.tokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
			m.tokens[key] = token
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for key, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
			m.tokens[key] = token
		}
	}
	return nil
}

func newAuthFixture() (*AuthService, *mockUserRepo) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "agenda-api-test",
	})
	return svc, repo
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "Student@Example.com",
		Password: "secret123",
		FullName: "Sample Student",
	})
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", user.Email)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, user.ID, res.User.ID)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Sample Student",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "other456",
		FullName: "Other Student",
	})
	require.Error(t, err)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Sample Student",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	svc, repo := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Sample Student",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	old := repo.tokens[login.RefreshToken]
	assert.True(t, old.Revoked)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
}

func TestAuthChangePasswordRevokesSessions(t *testing.T) {
	svc, repo := newAuthFixture()

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Sample Student",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "newsecret456",
	})
	require.NoError(t, err)

	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "newsecret456",
	})
	require.NoError(t, err)
}

func TestAuthValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
}
