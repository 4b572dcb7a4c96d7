package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	Port        string
	MaxFileSize int64
	TempDir     string
	Logger      *logrus.Logger
}

// NewRouter builds the gin engine with logging, recovery and all routes
func NewRouter(config *Config) *gin.Engine {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(RequestLogger(config.Logger), gin.Recovery())

	SetupRoutes(r, config)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})

	return r
}

func SetupRoutes(r *gin.Engine, config *Config) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/plan", func(c *gin.Context) { HandlePlan(c, config) })
		apiGroup.POST("/split", func(c *gin.Context) { HandleSplit(c, config) })
	}
}
