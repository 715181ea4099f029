package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/service"
)

const (
	sessionTokenKey = "token"

	contextUserIDKey = "userID"
	contextTokenKey  = "sessionToken"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验管理员凭据并签发新的会话令牌
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Invalid login data") {
		return
	}

	user, err := a.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		a.respondInternal(c, err)
		return
	}

	session := sessions.Default(c)
	if previous, ok := session.Get(sessionTokenKey).(string); ok && previous != "" {
		a.sessions.Destroy(previous)
	}

	token, err := a.sessions.Create(user.ID)
	if err != nil {
		a.respondInternal(c, err)
		return
	}

	session.Set(sessionTokenKey, token)
	if err := session.Save(); err != nil {
		a.sessions.Destroy(token)
		a.respondInternal(c, err)
		return
	}

	a.logger.Info("admin logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout 销毁当前会话并清除 Cookie
func (a *API) Logout(c *gin.Context) {
	if token := c.GetString(contextTokenKey); token != "" {
		a.sessions.Destroy(token)
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		a.respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// AuthStatus 仅在 AuthRequired 通过后可达
func (a *API) AuthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// AuthRequired 以服务端会话表为准校验 Cookie 中的令牌
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(sessionTokenKey).(string)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		userID, ok := a.sessions.Resolve(token)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		// 重新写入 Cookie，让浏览器端的 Max-Age 与服务端的空闲计时一同顺延
		session.Set(sessionTokenKey, token)
		if err := session.Save(); err != nil {
			a.logger.Warn("session cookie refresh failed", "user_id", userID, "error", err)
		}

		c.Set(contextUserIDKey, userID)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}
