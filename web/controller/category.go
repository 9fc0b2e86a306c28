package controller

import (
	"net/http"

	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	BaseController
	categories *service.CategoryService
}

func NewCategoryController(g *gin.RouterGroup, base BaseController, categories *service.CategoryService) *CategoryController {
	a := &CategoryController{BaseController: base, categories: categories}
	a.initRouter(g)
	return a
}

func (a *CategoryController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.list)

	g.POST("", a.checkLogin, a.checkAdmin, a.create)
	g.PUT("/:id", a.checkLogin, a.checkAdmin, a.update)
	g.DELETE("/:id", a.checkLogin, a.checkAdmin, a.delete)
}

func (a *CategoryController) create(c *gin.Context) {
	form := &entity.CategoryForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	category, err := a.categories.Create(c.Request.Context(), form)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, "category created successfully", "category", category)
}

func (a *CategoryController) list(c *gin.Context) {
	page := pageOf(c)
	categories, total, err := a.categories.List(c.Request.Context(), page)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonList(c, "all categories", "categories", categories, page, total)
}

func (a *CategoryController) update(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	form := &entity.CategoryForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	category, err := a.categories.Update(c.Request.Context(), id, form)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusOK, "category updated successfully", "category", category)
}

func (a *CategoryController) delete(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.categories.Delete(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "category deleted successfully")
}
