package middleware

import (
	"net/http"
	"strings"

	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// bearerToken reads the token from "Authorization: Bearer <jwt>", falling back
// to the legacy "token" header.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(c.GetHeader("token"))
}

// TokenAuth verifies the caller's token and stores the identity on the context.
// Any failure is answered with 401.
func TokenAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, err := auth.VerifyToken(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Message: err.Error()})
			return
		}
		c.Set(identityKey, who)
		c.Next()
	}
}

// GetIdentity returns the identity stored by TokenAuth, or nil.
func GetIdentity(c *gin.Context) *service.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	who, _ := v.(*service.Identity)
	return who
}
