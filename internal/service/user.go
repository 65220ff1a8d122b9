package service

import (
	"context"
	"strings"

	"github.com/userdesk/backend/internal/config"
	"github.com/userdesk/backend/internal/db"
	"github.com/userdesk/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo       UserRepo
	bcryptCost int
}

func NewUserService(repo UserRepo, cfg config.AuthConfig) (*UserService, error) {
	cost, err := parseBcryptCost(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &UserService{repo: repo, bcryptCost: cost}, nil
}

func (s *UserService) CurrentUser(ctx context.Context, caller *model.AuthUser) (*model.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, caller.Login)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, caller *model.AuthUser, id string) (*model.User, error) {
	user, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewUser(caller, user) {
		return nil, ErrForbidden
	}
	return user, nil
}

// Update applies only the non-blank fields of req. Login and role are
// immutable after creation; a new password is re-hashed.
func (s *UserService) Update(ctx context.Context, caller *model.AuthUser, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModifyUser(caller, user) {
		return nil, ErrForbidden
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if password := strings.TrimSpace(req.Password); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	return s.repo.UpdateUser(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, caller *model.AuthUser, id string) error {
	user, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := canDeleteUser(caller, user); err != nil {
		return err
	}

	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		if db.IsNoRows(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) List(ctx context.Context, caller *model.AuthUser) ([]model.User, error) {
	if !model.HasPermission(caller.Role, model.PermListUsers) {
		return nil, ErrForbidden
	}
	return s.repo.ListUsers(ctx)
}

func (s *UserService) lookup(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
