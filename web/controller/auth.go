package controller

import (
	"net/http"

	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
)

// AuthController serves registration, login and the caller's own account.
type AuthController struct {
	BaseController
	auth *service.AuthService
	keys *service.APIKeyService
}

// NewAuthController registers the /auth routes. limiter guards the
// unauthenticated credential routes.
func NewAuthController(g *gin.RouterGroup, base BaseController, auth *service.AuthService, keys *service.APIKeyService, limiter gin.HandlerFunc) *AuthController {
	a := &AuthController{BaseController: base, auth: auth, keys: keys}
	a.initRouter(g, limiter)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup, limiter gin.HandlerFunc) {
	g.POST("/register", limiter, a.register)
	g.POST("/register/admin", limiter, a.registerAdmin)
	g.POST("/login", limiter, a.login)

	me := g.Group("", a.checkLogin)
	me.GET("/profile", a.profile)
	me.POST("/apikey", a.issueKey)
	me.PUT("/apikey/:id/revoke", a.revokeKey)
	me.PUT("/change-password", a.changePassword)
}

func (a *AuthController) register(c *gin.Context) {
	a.doRegister(c, model.RoleUser, "sign-up completed")
}

func (a *AuthController) registerAdmin(c *gin.Context) {
	a.doRegister(c, model.RoleAdmin, "sign-up completed (admin)")
}

func (a *AuthController) doRegister(c *gin.Context, role model.Role, msg string) {
	form := &entity.RegisterForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	user, err := a.auth.Register(c.Request.Context(), form, role)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, msg, "user", user)
}

func (a *AuthController) login(c *gin.Context) {
	form := &entity.LoginForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	token, _, err := a.auth.Login(c.Request.Context(), form)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusOK, "login-in successfull", "token", token)
}

func (a *AuthController) profile(c *gin.Context) {
	user, err := a.auth.Profile(c.Request.Context(), a.identity(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusOK, "user details", "details", user)
}

func (a *AuthController) issueKey(c *gin.Context) {
	key, raw, err := a.keys.Issue(c.Request.Context(), a.identity(c).UserId)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "api key is created",
		"id":      key.Id,
		"key":     raw,
	})
}

func (a *AuthController) revokeKey(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.keys.Revoke(c.Request.Context(), a.identity(c).UserId, id); err != nil {
		a.fail(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "api key revoked successfully")
}

func (a *AuthController) changePassword(c *gin.Context) {
	form := &entity.ChangePasswordForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	if err := a.auth.ChangePassword(c.Request.Context(), a.identity(c).UserId, form); err != nil {
		a.fail(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "password changed successfully")
}
