package handle

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router wires every route onto a fresh gin engine.
func Router(h *Handle, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLog(log))

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/status", h.Status)
		api.GET("/today", h.Today)

		tt := api.Group("/timetable")
		{
			tt.GET("", h.GetTimetable)
			tt.DELETE("", h.DeleteTimetable)
			tt.POST("/image", h.SubmitImage)
			tt.GET("/export", h.Export)
			tt.POST("/days/:day/classes", h.AddClass)
			tt.PUT("/days/:day/classes/:class", h.UpdateClass)
			tt.DELETE("/days/:day/classes/:class", h.DeleteClass)
		}
	}
	return r
}

const requestIDMaxLen = 64

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

func requestLog(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("client error", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
