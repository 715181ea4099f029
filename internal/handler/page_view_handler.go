package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/service"
)

type pageViewRequest struct {
	Path string `json:"path"`
}

// RecordPageView 为前台页面记一次浏览
func (a *API) RecordPageView(c *gin.Context) {
	var req pageViewRequest
	if !bindJSON(c, &req, "Invalid path") {
		return
	}

	view, err := a.views.Record(req.Path)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondValidation(c, err, "Invalid path")
			return
		}
		a.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListPageViews 返回全部页面的浏览统计
func (a *API) ListPageViews(c *gin.Context) {
	items, err := a.views.List()
	if err != nil {
		a.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
