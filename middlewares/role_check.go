package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/utils"
)

// RequireStaff rejects callers whose stored account is not staff.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsStaff) {
			utils.AbortWithError(c, http.StatusForbidden, errors.New("you do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}
