// Package repository stores user profiles.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	usererrors "github.com/cineclass/cineclass/internal/modules/usermodule/errors"
	"gorm.io/gorm"
)

// UserRepository reads and writes users.
type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewUserRepository creates a repository whose calls are bounded by timeout.
func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UserRepository{db: db, timeout: timeout}
}

func (r *UserRepository) withTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}

// Create inserts a new user. The email must not be registered yet.
func (r *UserRepository) Create(ctx context.Context, user *database.User) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&database.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(user).Error
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return usererrors.EmailTaken("create_user")
	case err != nil:
		return usererrors.Store("create_user", err)
	}
	return nil
}

// GetByID returns a user without its quiz history.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*database.User, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var user database.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.NotFound("get_user", id)
		}
		return nil, usererrors.Store("get_user", err)
	}
	return &user, nil
}

// Update loads the user, applies fn and saves the result in one
// transaction. fn returning false skips the write.
func (r *UserRepository) Update(ctx context.Context, id string, fn func(*database.User) (bool, error)) (*database.User, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var user database.User
	var fnErr error
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		changed, err := fn(&user)
		if err != nil {
			fnErr = err
			return err
		}
		if !changed {
			return nil
		}
		return tx.Model(&user).Select("name", "age", "favorites", "updated_at").Updates(&user).Error
	})
	if err != nil {
		switch {
		case fnErr != nil:
			return nil, fnErr
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, usererrors.NotFound("update_user", id)
		default:
			return nil, usererrors.Store("update_user", err)
		}
	}
	return &user, nil
}
