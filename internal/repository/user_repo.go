package repository

import (
	"context"

	"notifyhub/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(u).Error, "unable to create user")
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get user %s", id)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get user by email %s", email)
	}
	return &u, nil
}

// ListByEmails returns the users whose email exactly matches one of emails. Unknown addresses are
// simply absent from the result.
func (r *UserRepository) ListByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	var list []models.User
	err := r.db.WithContext(ctx).Where("email IN ?", emails).Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to look up users by email")
	}
	return list, nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(u).Error, "unable to update user")
}
