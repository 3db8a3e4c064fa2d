package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"beewise-preorder-go/internal/model"
)

// ErrDuplicateEmail reports a signup for an address that already has a
// preorder row. It is derived from the unique-index violation, so it is
// authoritative even under concurrent signups for the same address.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository provides access to the preorders table
type Repository struct {
	db *gorm.DB
}

// New creates a new preorder repository
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail returns the preorder row for a normalized address, or nil
// when none exists.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*model.Preorder, error) {
	var preorder model.Preorder
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&preorder)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error looking up %s: %w", email, result.Error)
	}
	return &preorder, nil
}

// Create inserts a new preorder row. The email column carries a unique
// index; a violation maps to ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, preorder *model.Preorder) error {
	result := r.db.WithContext(ctx).Create(preorder)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create preorder: %w", result.Error)
	}
	return nil
}

// ListAll returns every preorder row, most recent signup first
func (r *Repository) ListAll(ctx context.Context) ([]model.Preorder, error) {
	var preorders []model.Preorder
	result := r.db.WithContext(ctx).Order("signup_date DESC").Find(&preorders)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list preorders: %w", result.Error)
	}
	return preorders, nil
}

// MarkNotified sets the notified flag for a normalized address and reports
// whether a row was touched. Re-marking an already notified row is a no-op
// and zero rows affected means no record exists for the address; neither is
// an error.
func (r *Repository) MarkNotified(ctx context.Context, email string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Preorder{}).
		Where("email = ?", email).
		Update("notified", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark %s notified: %w", email, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAll removes every preorder row and returns the number removed
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Preorder{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear preorders: %w", result.Error)
	}
	return result.RowsAffected, nil
}
