package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of roles a user can hold
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts free text into a Role. An empty value defaults to RoleUser.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(value), nil
	default:
		return "", NewError(ErrValidation, fmt.Sprintf("Invalid role '%s'. Allowed roles: admin, user", value))
	}
}

// User is a registered account. Password always holds the bcrypt hash once persisted.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:text;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HashPassword replaces the raw password with its salted bcrypt hash
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether raw matches the stored hash
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}
