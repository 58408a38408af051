package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/repository"
	"github.com/yeremiapane/personnel-api/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID  = "user_id"
	ContextIsStaff = "is_staff"
)

var errInactiveAccount = errors.New("user not found or inactive")

// ActiveUserFinder loads a user that is still allowed to sign in.
type ActiveUserFinder interface {
	FindActiveByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware requires an "Authorization: Bearer <token>" header.
func AuthMiddleware(tokens *utils.TokenIssuer, users ActiveUserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("authentication credentials were not provided"))
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
			return
		}

		authenticate(c, tokens, users, tokenString)
	}
}

// WebSocketAuthMiddleware reads the token from the "token" query parameter,
// since browsers cannot set headers on a WebSocket handshake.
func WebSocketAuthMiddleware(tokens *utils.TokenIssuer, users ActiveUserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("authentication credentials were not provided"))
			return
		}

		authenticate(c, tokens, users, token)
	}
}

// authenticate checks the token, then the stored account: a user deactivated
// after login loses access at once, and the staff flag comes from the
// current record rather than the token.
func authenticate(c *gin.Context, tokens *utils.TokenIssuer, users ActiveUserFinder, tokenString string) {
	claims, err := tokens.ParseToken(tokenString)
	if err != nil {
		utils.AbortWithError(c, http.StatusUnauthorized, err)
		return
	}

	user, err := users.FindActiveByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.AbortWithError(c, http.StatusUnauthorized, errInactiveAccount)
		return
	}
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", claims.UserID).Error("load authenticated user failed")
		utils.AbortWithError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	c.Set(ContextUserID, user.ID)
	c.Set(ContextIsStaff, user.IsStaff)
	c.Next()
}

// CurrentUserID returns the authenticated caller set by the auth middlewares.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
