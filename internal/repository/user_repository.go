package repository

import (
	"context"                      // Request-scoped context
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"tarot_portal/internal/db"     // Constraint error detection
	"tarot_portal/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

var (
	// ErrNotFound is returned when no user matches the lookup
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique email index rejects an insert
	ErrDuplicateEmail = errors.New("email already stored")
)

// UserRepository is the account store. Users are never updated or deleted through it.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB // Database connection
}

// NewUserRepository builds a GORM-backed repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByEmail returns the user registered under email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User // Holds the fetched row
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// FindByID returns the user with the given primary key
func (r *userRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User // Holds the fetched row
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// Create inserts user inside a transaction so a rejected insert leaves nothing behind
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error // Return error to rollback
	})
	if err != nil {
		user.ID = 0 // Never hand back an id that was not committed
		return mapError(err)
	}
	return nil
}

// Count returns how many users are registered
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64 // Row count
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// mapError translates GORM errors into repository errors
func mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound // No matching row
	case db.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", ErrDuplicateEmail, err) // Unique email index
	default:
		return err
	}
}
