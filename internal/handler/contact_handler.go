package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/service"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmitContact 接收前台联系表单
func (a *API) SubmitContact(c *gin.Context) {
	var req contactRequest
	if !bindJSON(c, &req, "Invalid contact data") {
		return
	}

	msg, err := a.contacts.Create(service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		a.handleContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// ListContacts 返回全部留言
func (a *API) ListContacts(c *gin.Context) {
	items, err := a.contacts.List()
	if err != nil {
		a.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkContactRead 将留言标记为已读
func (a *API) MarkContactRead(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	msg, err := a.contacts.MarkRead(id)
	if err != nil {
		a.handleContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// DeleteContact 删除留言
func (a *API) DeleteContact(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := a.contacts.Delete(id); err != nil {
		a.handleContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) handleContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondValidation(c, err, "Invalid contact data")
	case errors.Is(err, service.ErrContactNotFound):
		respondError(c, http.StatusNotFound, "Contact not found")
	default:
		a.respondInternal(c, err)
	}
}
