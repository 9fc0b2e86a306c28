package controller

import (
	"net/http"

	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
)

// PostController serves the public feed and the author's own submissions.
type PostController struct {
	BaseController
	posts *service.PostService
}

func NewPostController(g *gin.RouterGroup, base BaseController, posts *service.PostService) *PostController {
	a := &PostController{BaseController: base, posts: posts}
	a.initRouter(g)
	return a
}

func (a *PostController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.list)
	g.GET("/:id", a.get)

	g.POST("", a.checkLogin, a.create)
	g.PUT("/:id", a.checkLogin, a.update)
	g.DELETE("/:id", a.checkLogin, a.delete)
}

func (a *PostController) create(c *gin.Context) {
	form := &entity.CreatePostForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	post, err := a.posts.Create(c.Request.Context(), a.identity(c).UserId, form)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, "post created successfully (pending approval)", "post", post)
}

func (a *PostController) list(c *gin.Context) {
	page := pageOf(c)
	posts, total, err := a.posts.ListPublished(c.Request.Context(), page)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonList(c, "published posts", "posts", posts, page, total)
}

func (a *PostController) get(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	post, err := a.posts.GetPublished(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusOK, "post details", "post", post)
}

func (a *PostController) update(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	form := &entity.UpdatePostForm{}
	if err := bindJSON(c, form); err != nil {
		a.fail(c, err)
		return
	}
	post, err := a.posts.Update(c.Request.Context(), a.identity(c).UserId, id, form)
	if err != nil {
		a.fail(c, err)
		return
	}
	jsonObj(c, http.StatusOK, "post updated successfully", "post", post)
}

func (a *PostController) delete(c *gin.Context) {
	id, err := entity.ParseID(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.posts.Delete(c.Request.Context(), a.identity(c).UserId, id); err != nil {
		a.fail(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "post deleted successfully")
}
