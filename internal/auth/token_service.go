// Package auth issues and verifies bearer tokens.
//
// Tokens are HS256 JWTs carrying the user's id, email and role with a fixed
// lifetime. Verification is stateless: rotating the secret invalidates every
// outstanding token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Principal is the identity derived from a verified token
type Principal struct {
	UserID uint        `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role
func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Token is the result of a successful login
type Token struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// TokenService is the authentication gate: it logs users in and verifies their tokens
type TokenService struct {
	issuer *OAuthService
	users  services.UserService
	secret []byte
	now    func() time.Time
}

func NewTokenService(issuer *OAuthService, users services.UserService, secret string) *TokenService {
	return &TokenService{
		issuer: issuer,
		users:  users,
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Login verifies the credentials and issues an access token.
// Unknown emails and wrong passwords fail identically with models.ErrInvalidCredentials.
func (s *TokenService) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := verifyCredentials(ctx, s.users, email, password)
	if err != nil {
		return nil, err
	}

	info, err := s.issuer.IssueToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Token{AccessToken: info.GetAccess(), ExpiresIn: info.GetAccessExpiresIn()}, nil
}

// Authenticate verifies signature and expiry of tokenString and returns its principal.
// Every failure is models.ErrUnauthenticated.
func (s *TokenService) Authenticate(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, unauthenticated(errors.New("empty token"))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC to prevent algorithm confusion
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, unauthenticated(err)
	}

	if claims.UserID == 0 {
		return nil, unauthenticated(errors.New("token missing required 'id' claim"))
	}
	if claims.Role == "" {
		return nil, unauthenticated(errors.New("token missing required 'role' claim"))
	}
	role, err := models.ParseRole(string(claims.Role))
	if err != nil {
		return nil, unauthenticated(err)
	}

	return &Principal{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}

func unauthenticated(cause error) error {
	return models.WrapError(models.ErrUnauthenticated, models.MsgUnauthenticated, cause)
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// verifyCredentials looks the user up and checks the password.
// A bcrypt comparison runs even for unknown emails so both failures cost the same.
func verifyCredentials(ctx context.Context, users services.UserService, email, password string) (*models.User, error) {
	invalid := models.NewError(models.ErrInvalidCredentials, models.MsgInvalidCredentials)

	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		dummyHashOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("claim-tracker-dummy"), bcrypt.DefaultCost)
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, invalid
	}

	if !users.VerifyPassword(password, user.Password) {
		return nil, invalid
	}
	return user, nil
}
