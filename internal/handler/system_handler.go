package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck 探测数据库连通性，不向外暴露驱动错误信息。
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.logger.Error("health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// NotFoundAPI answers unknown /api routes.
func NotFoundAPI(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Not found")
}
