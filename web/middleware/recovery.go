package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into a 500 envelope. The panic value is
// only included outside production.
func Recovery(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Errorf("[%s] panic serving %s %s: %v\n%s", GetRequestID(c), c.Request.Method, c.Request.URL.Path, r, debug.Stack())
			msg := entity.Msg{Message: "internal server error"}
			if !production {
				msg.Error = fmt.Sprint(r)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, msg)
		}()
		c.Next()
	}
}
