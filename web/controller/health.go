package controller

import (
	"net/http"
	"time"

	"github.com/quillpress/quillpress/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports liveness and whether the database answers.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(g *gin.RouterGroup, db *gorm.DB) *HealthController {
	a := &HealthController{db: db}
	g.GET("/health", a.health)
	return a
}

func (a *HealthController) health(c *gin.Context) {
	if err := database.Ping(a.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message":   "database unavailable",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "server is running",
		"timestamp": time.Now().UTC(),
	})
}
