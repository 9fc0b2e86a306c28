package middleware

import (
	"net/http"

	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the caller has exactly role.
// It must run after TokenAuth.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := GetIdentity(c)
		if who == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Message: "you are not signed in"})
			return
		}
		if who.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, entity.Msg{Message: "you are not allowed to access this resource"})
			return
		}
		c.Next()
	}
}
