// Package identity implements workflow.IdentityStore over the users table.
package identity

import (
	"context"
	"errors"
	"fmt"

	"proflow/internal/models"
	"proflow/internal/workflow"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) LookupByEmail(ctx context.Context, email string) (*workflow.Identity, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup %s: %w", email, workflow.ErrIdentityNotFound)
		}
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}
	return &workflow.Identity{UID: user.ID, Email: user.Email}, nil
}

func (s *Store) DeleteByEmail(ctx context.Context, email string) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "email = ?", email)
	if res.Error != nil {
		return fmt.Errorf("delete account %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete account %s: %w", email, workflow.ErrIdentityNotFound)
	}
	return nil
}
