package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/service"
)

type contentUpdateRequest struct {
	Value *string `json:"value"`
}

// ListContent 返回后台可编辑的全部文案
func (a *API) ListContent(c *gin.Context) {
	items, err := a.content.List()
	if err != nil {
		a.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpdateContent 覆盖单条文案
func (a *API) UpdateContent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid content ID")
		return
	}

	var req contentUpdateRequest
	if !bindJSON(c, &req, "Invalid value") {
		return
	}
	if req.Value == nil {
		respondError(c, http.StatusBadRequest, "Invalid value")
		return
	}

	entry, err := a.content.Update(id, *req.Value)
	if err != nil {
		a.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// PublicContent 返回前台按 section/key 分组并渲染好的文案
func (a *API) PublicContent(c *gin.Context) {
	content, err := a.content.Public()
	if err != nil {
		a.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (a *API) handleContentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondValidation(c, err, "Invalid value")
	case errors.Is(err, service.ErrContentNotFound):
		respondError(c, http.StatusNotFound, "Content not found")
	default:
		a.respondInternal(c, err)
	}
}
