package middleware

import (
	"log/slog"
	"slices"

	"campus-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware configures CORS for the dashboard clients. The cors
// library rejects credentials together with a wildcard origin, so that
// combination is downgraded instead of panicking at startup.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowCredentials := cfg.AllowCredentials
	if allowCredentials && slices.Contains(cfg.AllowOrigins, "*") {
		slog.Warn("CORSで認証情報付きワイルドカードは許可されないため無効化します")
		allowCredentials = false
	}

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "AllowOrigins", cfg.AllowOrigins)
	return cors.New(corsCfg)
}
