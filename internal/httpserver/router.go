package httpserver

import (
	"context"
	"strconv"
	"time"

	"roadmap-service/internal/handler"
	"roadmap-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Goals      *handler.GoalHandler
	Milestones *handler.MilestoneHandler
	Tasks      *handler.TaskHandler
	Members    *handler.MemberHandler
	Ideas      *handler.IdeaHandler
	Dashboard  *handler.DashboardHandler
	Admin      *handler.AdminHandler
}

func NewRouter(h Handlers, logger *zap.Logger, db *pgxpool.Pool, enableTestEndpoints bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			latency,
		)
	})

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/goals", h.Goals.List)
		api.POST("/goals", h.Goals.Create)
		api.GET("/goals/:id", h.Goals.Get)
		api.PUT("/goals/:id", h.Goals.Update)
		api.DELETE("/goals/:id", h.Goals.Delete)

		api.GET("/milestones", h.Milestones.List)
		api.POST("/milestones", h.Milestones.Create)
		api.GET("/milestones/:id", h.Milestones.Get)
		api.PUT("/milestones/:id", h.Milestones.Update)
		api.DELETE("/milestones/:id", h.Milestones.Delete)

		api.GET("/tasks", h.Tasks.List)
		api.POST("/tasks", h.Tasks.Create)
		api.GET("/tasks/:id", h.Tasks.Get)
		api.PUT("/tasks/:id", h.Tasks.Update)
		api.DELETE("/tasks/:id", h.Tasks.Delete)

		api.GET("/members", h.Members.List)
		api.POST("/members", h.Members.Create)
		api.GET("/members/summary", h.Dashboard.MembersSummary)
		api.GET("/members/:id", h.Members.Get)
		api.PUT("/members/:id", h.Members.Update)
		api.DELETE("/members/:id", h.Members.Delete)

		api.GET("/ideas", h.Ideas.List)
		api.POST("/ideas", h.Ideas.Create)
		api.GET("/ideas/:id", h.Ideas.Get)
		api.PUT("/ideas/:id", h.Ideas.Update)
		api.DELETE("/ideas/:id", h.Ideas.Delete)
		api.POST("/ideas/:id/convert", h.Ideas.Convert)
		api.GET("/ideas/:id/comments", h.Ideas.ListComments)
		api.POST("/ideas/:id/comments", h.Ideas.CreateComment)
		api.DELETE("/comments/:id", h.Ideas.DeleteComment)

		api.GET("/dashboard/summary", h.Dashboard.Summary)
		api.GET("/years", h.Dashboard.Years)
		api.GET("/gantt/data", h.Dashboard.GanttData)

		if enableTestEndpoints && h.Admin != nil {
			logger.Warn("Test endpoints are enabled; the data reset route is live")
			api.DELETE("/admin/reset", h.Admin.ResetAll)
		}
	}

	return r
}
