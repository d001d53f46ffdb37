package middleware

import (
	"log/slog"
	"strings"

	"librarium/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the browser cross-origin policy from the
// environment. Credentials stay allowed so the access-token cookie
// survives cross-origin requests from the catalog frontend.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	slog.Debug("cors policy loaded", "allow_origins", strings.Join(cfg.AllowOrigins, ","))
	return cors.New(policy)
}
