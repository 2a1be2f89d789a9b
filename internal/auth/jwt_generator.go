package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of an access token
type Claims struct {
	UserID uint        `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// newClaims builds the claims for user, valid from issuedAt for ttl.
// The jti keeps tokens issued within the same second distinct in the issuance log.
func newClaims(user *models.User, issuedAt time.Time, ttl time.Duration) Claims {
	return Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
}

// signClaims signs claims with HS256
func signClaims(claims Claims, key []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// JWTAccessGenerate generates JWT access tokens embedding the user's id, email and role
type JWTAccessGenerate struct {
	SignedKey []byte
	Users     services.UserService
}

// NewJWTAccessGenerate creates a new JWT access token generator
func NewJWTAccessGenerate(key []byte, users services.UserService) *JWTAccessGenerate {
	return &JWTAccessGenerate{
		SignedKey: key,
		Users:     users,
	}
}

// Token generates a JWT access token with custom claims
// This method is called by the OAuth2 manager to generate access tokens
func (g *JWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	if data.UserID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	// Role and email are read from the database so the token reflects the stored account
	userID, err := strconv.ParseUint(data.UserID, 10, 32)
	if err != nil {
		return "", "", fmt.Errorf("invalid user ID format: %w", err)
	}
	user, err := g.Users.GetUserByID(ctx, uint(userID))
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user: %w", err)
	}

	claims := newClaims(user, data.TokenInfo.GetAccessCreateAt(), data.TokenInfo.GetAccessExpiresIn())
	access, err := signClaims(claims, g.SignedKey)
	if err != nil {
		return "", "", err
	}

	// Refresh tokens are not issued
	return access, "", nil
}
