// Package controller maps the HTTP API onto the services. Each controller
// registers its routes on the group it is given.
package controller

import (
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/web/middleware"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
)

// BaseController carries what every controller needs: the token check and
// whether internal error detail may be shown.
type BaseController struct {
	checkLogin gin.HandlerFunc
	checkAdmin gin.HandlerFunc
	production bool
}

func NewBaseController(auth *service.AuthService, production bool) BaseController {
	return BaseController{
		checkLogin: middleware.TokenAuth(auth),
		checkAdmin: middleware.RequireRole(model.RoleAdmin),
		production: production,
	}
}

// identity returns the caller; only valid behind checkLogin.
func (a *BaseController) identity(c *gin.Context) *service.Identity {
	return middleware.GetIdentity(c)
}

func (a *BaseController) fail(c *gin.Context, err error) {
	jsonError(c, err, a.production)
}
