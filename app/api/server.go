package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware; the rendering frontend is an external collaborator.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.GetHealth)

	r.GET("/news", handler.GetNews)
	r.POST("/assets/search", handler.SearchAssets)

	r.POST("/generate", handler.Generate)
	r.POST("/credentials/test", handler.TestCredential)
	r.PUT("/credentials", handler.PutCredential)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "ReelCraft",
			"endpoints": map[string]string{
				"health":           "/health",
				"news":             "/news?topic=<topic>&category=<category>&days=<days>",
				"assets":           "/assets/search (POST)",
				"generate":         "/generate (POST, requires Authorization)",
				"credential_test":  "/credentials/test (POST)",
				"credential_store": "/credentials (PUT, requires Authorization)",
			},
		})
	})
}
