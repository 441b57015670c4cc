// Package service implements services.UserService.
package service

import (
	"context"
	"strings"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/usermodule/core/repository"
	usererrors "github.com/cineclass/cineclass/internal/modules/usermodule/errors"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// MaxAge is the oldest accepted profile age.
const MaxAge = 120

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	repo    *repository.UserRepository
	catalog services.CatalogService
	log     hclog.Logger
}

// NewUserService creates a new user service implementation
func NewUserService(repo *repository.UserRepository, catalog services.CatalogService) services.UserService {
	return &userServiceImpl{repo: repo, catalog: catalog, log: logger.Named("users")}
}

// CreateUser registers a new profile
func (s *userServiceImpl) CreateUser(ctx context.Context, name, email string, role database.Role, age int) (*database.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case name == "":
		return nil, usererrors.Invalid("create_user", "name is required")
	case email == "":
		return nil, usererrors.Invalid("create_user", "email is required")
	case !role.Valid():
		return nil, usererrors.Invalid("create_user", "unknown role %q", role)
	case age < 0 || age > MaxAge:
		return nil, usererrors.Invalid("create_user", "age must be between 0 and %d", MaxAge)
	}

	user := &database.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      role,
		Age:       age,
		Favorites: []string{},
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user created", "user_id", user.ID, "role", role)
	return user, nil
}

// GetUser retrieves a profile by id
func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*database.User, error) {
	if err := checkID("get_user", id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// checkID rejects ids that CreateUser could never have issued.
func checkID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.Invalid(op, "malformed user id %q", id)
	}
	return nil
}

// UpdateUser changes the name and/or age of a profile
func (s *userServiceImpl) UpdateUser(ctx context.Context, id string, name *string, age *int) (*database.User, error) {
	if err := checkID("update_user", id); err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, usererrors.Invalid("update_user", "name must not be empty")
	}
	if age != nil && (*age < 0 || *age > MaxAge) {
		return nil, usererrors.Invalid("update_user", "age must be between 0 and %d", MaxAge)
	}

	return s.repo.Update(ctx, id, func(u *database.User) (bool, error) {
		changed := false
		if name != nil {
			u.Name = strings.TrimSpace(*name)
			changed = true
		}
		if age != nil {
			u.Age = *age
			changed = true
		}
		return changed, nil
	})
}

// AddFavorite marks a visible title as favorite. Adding twice is a no-op.
func (s *userServiceImpl) AddFavorite(ctx context.Context, userID, titleID string) (*database.User, error) {
	if err := checkID("add_favorite", userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(titleID) == "" {
		return nil, usererrors.Invalid("add_favorite", "movie id is required")
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetTitle(ctx, titleID); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, userID, func(u *database.User) (bool, error) {
		return u.AddFavorite(titleID), nil
	})
}

// RemoveFavorite unmarks a title. Removing an absent favorite is a no-op.
func (s *userServiceImpl) RemoveFavorite(ctx context.Context, userID, titleID string) (*database.User, error) {
	if err := checkID("remove_favorite", userID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, func(u *database.User) (bool, error) {
		return u.RemoveFavorite(titleID), nil
	})
}

// ListFavorites resolves the favorites that are still in the catalog
func (s *userServiceImpl) ListFavorites(ctx context.Context, userID string) ([]database.Title, error) {
	if err := checkID("list_favorites", userID); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.GetTitles(ctx, user.Favorites)
}
