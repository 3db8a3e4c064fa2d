package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beewise-preorder-go/internal/config"
	"beewise-preorder-go/internal/handlers"
	"beewise-preorder-go/internal/model"
)

// SetupRouter configures routes and middleware
func SetupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware())

	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/preorder", h.Signup)

		admin := api.Group("/admin", adminAuth(cfg.Admin.Token))
		{
			admin.GET("/preorders", h.ListPreorders)
			admin.POST("/send-notification", h.SendNotification)
			admin.DELETE("/preorders", h.ClearPreorders)
		}
	}

	if cfg.Server.StaticDir != "" {
		router.NoRoute(staticSite(cfg.Server.StaticDir))
	}

	return router
}

// adminAuth guards the operator endpoints with a static bearer token
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Error:   "unauthorized",
				Message: "Operator credentials required",
				Code:    http.StatusUnauthorized,
			})
			return
		}
		c.Next()
	}
}

// staticSite serves the built marketing site, falling back to index.html
// for client-side routes.
func staticSite(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Error:   "not_found",
				Message: "Route not found",
				Code:    http.StatusNotFound,
			})
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}

func loggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	})
}
