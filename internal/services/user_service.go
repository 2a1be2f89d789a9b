package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"gorm.io/gorm"
)

// UserService is the credential store
type UserService interface {
	// Register hashes rawPassword and stores a new user. Duplicate emails fail with models.ErrConflict.
	Register(ctx context.Context, email, rawPassword string, role models.Role) (*models.User, error)
	// FindByEmail returns models.ErrNotFound when no user has that email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	// VerifyPassword compares a raw password with a stored hash
	VerifyPassword(rawPassword, storedHash string) bool
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) Register(ctx context.Context, email, rawPassword string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, models.NewError(models.ErrConflict, models.MsgUserExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: rawPassword,
		Role:     role,
	}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent registration of the same email
		if isDuplicateKey(err) {
			return nil, models.WrapError(models.ErrConflict, models.MsgUserExists, err)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) VerifyPassword(rawPassword, storedHash string) bool {
	u := models.User{Password: storedHash}
	return u.CheckPassword(rawPassword)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
