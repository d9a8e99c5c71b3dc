package http

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/process"

	"github.com/connectsphere/server/internal/adapters/signal"
	"github.com/connectsphere/server/internal/app"
	"github.com/connectsphere/server/internal/config"
	"github.com/connectsphere/server/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

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

func SetupRouter(ctx context.Context, cfg *config.Config, co *app.Coordinator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ConnectSphereSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	started := time.Now()

	r.GET("/health", func(c *gin.Context) {
		rooms, users := co.Registry.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"activeRooms": rooms,
			"activeUsers": users,
		})
	})

	api := r.Group("/api")

	api.GET("/room/:id", func(c *gin.Context) {
		roomID := domain.RoomID(c.Param("id"))
		snap, ok := co.Registry.Snapshot(roomID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":           snap.RoomID,
			"userCount":    len(snap.Users),
			"messageCount": len(snap.Messages),
			"createdAt":    snap.CreatedAt,
			"users":        snap.Users,
		})
	})

	api.GET("/stats", func(c *gin.Context) {
		rooms, users := co.Registry.Counts()
		resp := gin.H{
			"activeRooms": rooms,
			"activeUsers": users,
			"uptime":      time.Since(started).Seconds(),
		}
		if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
			if mi, err := p.MemoryInfo(); err == nil {
				resp["memory"] = gin.H{"rss": mi.RSS, "vms": mi.VMS}
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	// ICE server list for the browser side; the server hands out the
	// config and stays out of the negotiation.
	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": cfg.ICEServers()})
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl := signal.NewSignalWSController(co, cfg)
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
