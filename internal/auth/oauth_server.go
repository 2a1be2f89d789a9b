package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oauth2errors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/go-oauth2/oauth2/v4/manage"
	oauth2models "github.com/go-oauth2/oauth2/v4/models"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/go-oauth2/oauth2/v4/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options configures token issuance
type Options struct {
	// Secret signs every access token with HS256
	Secret string
	// TTL is the fixed lifetime of an access token
	TTL time.Duration
	// ClientID and ClientSecret identify the first-party client used by /api/login
	ClientID     string
	ClientSecret string
}

// OAuthService issues access tokens through the go-oauth2 manager.
// Only the password grant is enabled.
type OAuthService struct {
	server  *server.Server
	manager *manage.Manager
	users   services.UserService
	opts    Options
}

func NewOAuthService(db *gorm.DB, users services.UserService, opts Options) (*OAuthService, error) {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}

	manager := manage.NewDefaultManager()
	manager.SetPasswordTokenCfg(&manage.Config{AccessTokenExp: opts.TTL, IsGenerateRefresh: false})
	manager.MapAccessGenerate(NewJWTAccessGenerate([]byte(opts.Secret), users))
	manager.MapTokenStorage(NewGormTokenStore(db))

	clientStore := store.NewClientStore()
	if err := clientStore.Set(opts.ClientID, &oauth2models.Client{
		ID:     opts.ClientID,
		Secret: opts.ClientSecret,
	}); err != nil {
		return nil, err
	}
	manager.MapClientStorage(clientStore)

	o := &OAuthService{
		manager: manager,
		users:   users,
		opts:    opts,
	}

	srv := server.NewDefaultServer(manager)
	srv.SetAllowedGrantType(oauth2.PasswordCredentials)
	srv.SetClientInfoHandler(server.ClientFormHandler)
	srv.SetPasswordAuthorizationHandler(o.authorizePassword)
	srv.SetInternalErrorHandler(func(err error) *oauth2errors.Response {
		logrus.WithError(err).Error("OAuth2 token endpoint internal error")
		return nil
	})
	o.server = srv

	return o, nil
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}

// IssueToken issues an access token for user through the first-party client
func (o *OAuthService) IssueToken(ctx context.Context, user *models.User) (oauth2.TokenInfo, error) {
	return o.manager.GenerateAccessToken(ctx, oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     o.opts.ClientID,
		ClientSecret: o.opts.ClientSecret,
		UserID:       strconv.FormatUint(uint64(user.ID), 10),
	})
}

// HandleToken handles the OAuth2 token endpoint
// @Summary Token Endpoint
// @Description Obtain an access token with the resource owner password grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: password"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param username formData string true "User email"
// @Param password formData string true "User password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if err := o.server.HandleTokenRequest(c.Writer, c.Request); err != nil {
		logrus.WithError(err).Warn("Failed to write OAuth2 token response")
	}
}

// authorizePassword resolves the resource owner of a password grant
func (o *OAuthService) authorizePassword(ctx context.Context, clientID, username, password string) (string, error) {
	user, err := verifyCredentials(ctx, o.users, username, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return "", oauth2errors.ErrInvalidGrant
		}
		return "", err
	}
	return strconv.FormatUint(uint64(user.ID), 10), nil
}
