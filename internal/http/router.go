package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the Gin router with middlewares and routes.
func NewRouter(logger *zap.Logger, intakeH *IntakeHandler) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/questions", intakeH.Questions)

	sessions := r.Group("/sessions")
	sessions.POST("", intakeH.CreateSession)
	sessions.GET("/:id", intakeH.GetSession)
	sessions.PUT("/:id/locale", intakeH.SetLocale)
	sessions.PUT("/:id/basic", intakeH.UpdateBasic)
	sessions.PUT("/:id/answers", intakeH.UpdateAnswers)
	sessions.POST("/:id/next", intakeH.Advance)
	sessions.POST("/:id/back", intakeH.Back)
	sessions.POST("/:id/reset", intakeH.Reset)
	sessions.POST("/:id/submit", intakeH.Submit)
	sessions.GET("/:id/report", intakeH.Report)
	sessions.GET("/:id/export", intakeH.ExportReport)

	return r
}

// zapLoggerMiddleware logs each request with zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
