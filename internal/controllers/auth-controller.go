package controllers

import (
	"context"
	"net/http"

	"github.com/franciscosanchezn/claim-tracker-api/internal/auth"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// LoginService is the part of the auth gate the controller needs
type LoginService interface {
	Login(ctx context.Context, email, password string) (*auth.Token, error)
}

type AuthController struct {
	userService services.UserService
	tokens      LoginService
}

func NewAuthController(userService services.UserService, tokens LoginService) *AuthController {
	return &AuthController{
		userService: userService,
		tokens:      tokens,
	}
}

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a user
// @Description Create an account. Role defaults to "user".
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Credentials and optional role"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := ac.userService.Register(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{ID: user.ID, Email: user.Email, Role: user.Role})
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token valid for one hour
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 429 {object} models.APIError
// @Router /api/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := ac.tokens.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token.AccessToken})
}
