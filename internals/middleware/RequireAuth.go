package middleware

import (
	"net/http"
	"time"

	"university-library/internals/models"
	"university-library/internals/repository"
	logger "university-library/loggers"

	"github.com/gin-gonic/gin"
)

// ContextEmailKey is where the middleware stores the authenticated email.
const ContextEmailKey = "email"

// Authenticator validates sessions and guards routes. Needs the user
// repository for the admin check and the activity bump.
type Authenticator struct {
	tokens *TokenManager
	users  repository.UserRepository
}

func NewAuthenticator(tokens *TokenManager, users repository.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate checks the access token cookie. A missing or expired access
// token falls through to the refresh flow, which reissues the pair when the
// refresh token is still good.
func (a *Authenticator) Authenticate(c *gin.Context) {
	tokenString, err := c.Cookie("access_token")
	if err != nil {
		a.refreshTokenFlow(c)
		return
	}
	details, err := a.tokens.extractAccessTokenMetadata(tokenString)
	if err != nil {
		a.refreshTokenFlow(c)
		return
	}
	email, err := a.tokens.FetchAuth(c.Request.Context(), details)
	if err != nil {
		logger.Logger.Info("token expired or revoked: ", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "token expired or invalid"})
		return
	}
	a.touchActivity(c, email)
	c.Set(ContextEmailKey, email)
	c.Next()
}

// RequireAdmin allows only users with the ADMIN role past. Must run after
// Authenticate.
func (a *Authenticator) RequireAdmin(c *gin.Context) {
	email := c.GetString(ContextEmailKey)
	if email == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}
	user, err := a.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "user not found"})
		return
	}
	if user.Role != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "admin access required"})
		return
	}
	c.Next()
}

func (a *Authenticator) refreshTokenFlow(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	details, err := a.tokens.extractRefreshTokenMetadata(refreshToken)
	if err != nil {
		logger.Logger.Info("failed to extract refresh token metadata: ", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "session expired"})
		return
	}
	if _, err := a.tokens.store.Get(c.Request.Context(), details.RefreshUuid); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "session expired"})
		return
	}

	if _, err := a.tokens.IssueSession(c, details.Email); err != nil {
		logger.Logger.Error("failed to reissue session: ", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "session expired"})
		return
	}
	a.touchActivity(c, details.Email)
	c.Set(ContextEmailKey, details.Email)
	c.Next()
}

// touchActivity bumps last_activity_date to today, best-effort.
func (a *Authenticator) touchActivity(c *gin.Context, email string) {
	today := time.Now().Truncate(24 * time.Hour)
	if err := a.users.TouchActivity(c.Request.Context(), email, today); err != nil {
		logger.Logger.Warn("failed to update last activity date: ", err)
	}
}
