package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"watchparty/internal/model"
	"watchparty/internal/repository"
)

func newTestAuth() *AuthService {
	s := NewAuthService(repository.NewMemoryUserRepo(), "test-secret", 0)
	s.cost = bcrypt.MinCost
	return s
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestAuth()

	reg, err := s.Register(ctx, model.RegisterRequest{Username: "alice", Phone: "0912345678", Password: "secret1"})
	req.NoError(err)
	req.NotEmpty(reg.User.ID)
	req.NotEmpty(reg.Token)
	req.NotEqual("secret1", reg.User.PasswordHash)

	id, err := s.ValidateToken(reg.Token)
	req.NoError(err)
	req.Equal(model.Identity{UserID: reg.User.ID, Username: "alice"}, id)

	login, err := s.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret1"})
	req.NoError(err)
	req.Equal(reg.User.ID, login.User.ID)

	_, err = s.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong-password"})
	req.ErrorIs(err, ErrUnauthorized)
	_, err = s.Login(ctx, model.LoginRequest{Username: "nobody", Password: "secret1"})
	req.ErrorIs(err, ErrUnauthorized)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestAuth()

	cases := map[string]model.RegisterRequest{
		"short username": {Username: "al", Phone: "0912345678", Password: "secret1"},
		"short password": {Username: "alice", Phone: "0912345678", Password: "12345"},
		"phone prefix":   {Username: "alice", Phone: "0812345678", Password: "secret1"},
		"phone length":   {Username: "alice", Phone: "091234567", Password: "secret1"},
		"phone letters":  {Username: "alice", Phone: "09123456ab", Password: "secret1"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Register(ctx, body)
			require.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestAuth()

	_, err := s.Register(ctx, model.RegisterRequest{Username: "alice", Phone: "0912345678", Password: "secret1"})
	req.NoError(err)

	_, err = s.Register(ctx, model.RegisterRequest{Username: "alice", Phone: "0987654321", Password: "secret1"})
	req.ErrorIs(err, ErrConflict)
	_, err = s.Register(ctx, model.RegisterRequest{Username: "bob", Phone: "0912345678", Password: "secret1"})
	req.ErrorIs(err, ErrConflict)
}

func TestAuthService_ValidateToken(t *testing.T) {
	req := require.New(t)
	s := newTestAuth()
	user := &model.User{ID: "u1", Username: "alice"}

	_, err := s.ValidateToken("not-a-token")
	req.ErrorIs(err, ErrUnauthorized)

	other := NewAuthService(repository.NewMemoryUserRepo(), "other-secret", 0)
	foreign, err := other.IssueToken(user)
	req.NoError(err)
	_, err = s.ValidateToken(foreign)
	req.ErrorIs(err, ErrUnauthorized)

	issued := time.Now().Add(-8 * 24 * time.Hour)
	s.now = func() time.Time { return issued }
	expired, err := s.IssueToken(user)
	req.NoError(err)
	s.now = time.Now
	_, err = s.ValidateToken(expired)
	req.ErrorIs(err, ErrInvalidToken)
}
