package controller

import (
	"net/http"

	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
)

// AdminController serves the moderation queue. Every route requires an admin.
type AdminController struct {
	BaseController
	moderation *service.ModerationService
}

func NewAdminController(g *gin.RouterGroup, base BaseController, moderation *service.ModerationService) *AdminController {
	a := &AdminController{BaseController: base, moderation: moderation}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.Use(a.checkLogin, a.checkAdmin)

	g.GET("/posts", a.list)
	g.PUT("/posts/:id/approve", a.approve)
	g.PUT("/posts/:id/reject", a.reject)
}

func (a *AdminController) list(c *gin.Context) {
	status, err := service.ParseStatus(c.Query("status"))
	if err != nil {
		a.fail(c, err)
		return
	}
	page := pageOf(c)
	posts, total, err := a.moderation.List(c.Request.Context(), status, page)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonList(c, string(status)+" posts", "posts", posts, page, total)
}

func (a *AdminController) approve(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.moderation.Approve(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "post approved successfully")
}

func (a *AdminController) reject(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	form := &entity.RejectForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	if err := a.moderation.Reject(c.Request.Context(), id, form); err != nil {
		a.fail(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "post rejected successfully")
}
