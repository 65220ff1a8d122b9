package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/userdesk/backend/internal/config"
	"github.com/userdesk/backend/internal/db"
	"github.com/userdesk/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// UserRepo is the persistence surface the services need. *db.Postgres
// implements it; tests substitute fakes.
type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]model.User, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

type AuthService struct {
	repo       UserRepo
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(repo UserRepo, tokens *TokenService, cfg config.AuthConfig) (*AuthService, error) {
	cost, err := parseBcryptCost(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: cost,
	}, nil
}

// Register validates the payload, hashes the password and persists the user.
// The duplicate-login lookup is only a fast path; the storage UNIQUE
// constraint closes the race between check and insert.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	login := strings.TrimSpace(req.Login)
	role, _ := model.ParseRole(req.Role)

	if _, err := s.repo.GetUserByLogin(ctx, login); err == nil {
		return nil, ErrDuplicateLogin
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Login:        login,
		PasswordHash: string(hash),
		Role:         role,
	}

	saved, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateLogin
		}
		return nil, err
	}
	return saved, nil
}

// Login verifies the credentials and mints a token with subject = login.
// Unknown login and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, *model.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		if db.IsNoRows(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Login)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Resolve turns a bearer token into the caller identity. The user row is
// re-read on every call so role changes and deletions take effect immediately.
func (s *AuthService) Resolve(ctx context.Context, tokenStr string) (*model.AuthUser, error) {
	login, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &model.AuthUser{
		ID:    user.ID,
		Login: user.Login,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

// EnsureAdmin seeds the bootstrap ADMIN account. Idempotent; a concurrent
// insert of the same login is treated as already seeded.
func (s *AuthService) EnsureAdmin(ctx context.Context, login, name, password string) error {
	if strings.TrimSpace(login) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: ADMIN_LOGIN/ADMIN_PASSWORD are required", ErrMisconfigured)
	}

	_, err := s.repo.GetUserByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	_, err = s.repo.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Login:        login,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if err != nil && db.IsUniqueViolation(err) {
		return nil
	}
	return err
}

func parseBcryptCost(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return bcrypt.DefaultCost, nil
	}
	cost, err := strconv.Atoi(value)
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return 0, fmt.Errorf("%w: invalid BCRYPT_COST", ErrMisconfigured)
	}
	return cost, nil
}
