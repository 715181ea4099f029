package router

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/config"
	"github.com/softysite/internal/handler"
)

const sessionCookieName = "softy_session"

// SetupRouter 配置 Gin 引擎、中间件链与全部路由
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}))
	r.Use(handler.RequestLogger(slog.Default()))
	r.Use(handler.SecurityHeaders())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 会话 Cookie 只携带不透明令牌，服务端会话表才是权威
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, store))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.HealthCheck)
		apiGroup.GET("/content", api.PublicContent)
		apiGroup.POST("/contact", api.SubmitContact)
		apiGroup.POST("/page-view", api.RecordPageView)
		apiGroup.POST("/auth/login", api.Login)

		auth := apiGroup.Group("")
		auth.Use(api.AuthRequired())
		{
			auth.POST("/auth/logout", api.Logout)
			auth.GET("/auth/status", api.AuthStatus)

			admin := auth.Group("/admin")
			admin.GET("/contacts", api.ListContacts)
			admin.POST("/contacts/:id/read", api.MarkContactRead)
			admin.DELETE("/contacts/:id", api.DeleteContact)
			admin.GET("/content", api.ListContent)
			admin.PATCH("/content/:id", api.UpdateContent)
			admin.GET("/statistics", api.ListPageViews)
		}
	}

	r.NoRoute(spaFallback(cfg.StaticDir))
	return r
}

// spaFallback serves files from the built SPA and falls back to index.html
// for client-side routes. Unknown /api paths always get a JSON 404.
func spaFallback(staticDir string) gin.HandlerFunc {
	root := ""
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		root = staticDir
	} else if staticDir != "" {
		slog.Warn("static directory not found, SPA serving disabled", "dir", staticDir)
	}

	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
			handler.NotFoundAPI(c)
			return
		}
		if root == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			handler.NotFoundAPI(c)
			return
		}

		target := filepath.Join(root, filepath.FromSlash(path.Clean("/"+reqPath)))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			c.File(target)
			return
		}
		c.File(filepath.Join(root, "index.html"))
	}
}
