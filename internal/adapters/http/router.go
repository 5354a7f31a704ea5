package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pairchat/pairchat/internal/adapters/signal"
	"github.com/pairchat/pairchat/internal/app"
	"github.com/pairchat/pairchat/internal/config"
	"github.com/pairchat/pairchat/internal/store"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags every browser with a ct cookie so websocket
// upgrades and uploads from the same client correlate in the logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, rooms *store.RoomStore) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	sessionStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("PairchatSessions", sessionStore))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	// Uploaded assets are served read-only from the upload namespace the
	// coordinator checks media references against.
	r.Static("/uploads", cfg.UploadDir)

	uploads := &UploadService{
		Rooms:    rooms,
		Dir:      cfg.UploadDir,
		MaxBytes: cfg.MaxUploadBytes,
	}
	ws := signal.NewController(coord, cfg.ReadLimit, cfg.PingPeriod)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Str("uploads", cfg.UploadDir).Msg("router setup")

	api := r.Group("/api")
	api.POST("/upload", uploads.Handle)
	api.GET("/ws", func(c *gin.Context) {
		ws.HandleWS(ctx, c)
	})

	return r
}
