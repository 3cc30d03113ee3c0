package service

import (
	"context"
	"errors"
	"strings"

	"notifyhub/config"
	"notifyhub/internal/auth"
	"notifyhub/internal/models"
	"notifyhub/internal/repository"

	"github.com/google/uuid"
	"github.com/mcnijman/go-emailaddress"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthService struct {
	cfg      *config.JWTConfig
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.JWTConfig, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if _, err := emailaddress.Parse(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrPasswordShort
	}
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateAccessToken(s.cfg, u.ID, u.Email)
	if err != nil {
		return u, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCreds
	}
	if !u.IsActive {
		return nil, "", ErrInactiveUser
	}
	token, err := auth.GenerateAccessToken(s.cfg, u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// CurrentUser loads the authenticated user; a token for a deleted or inactive account yields ErrNotFound
// or ErrInactiveUser.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

// RegisterFCMToken saves the device token used for mobile pushes. An empty token unregisters.
func (s *AuthService) RegisterFCMToken(ctx context.Context, u *models.User, token string) error {
	u.FCMToken = strings.TrimSpace(token)
	return s.userRepo.Update(ctx, u)
}
