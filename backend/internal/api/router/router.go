package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"formation-hub/backend/config"
	"formation-hub/backend/internal/api/handler"
	"formation-hub/backend/internal/api/middleware"
	"formation-hub/backend/pkg/jwt"
	"formation-hub/backend/pkg/redis"
)

const (
	jsonBodyLimit   = 1 << 20 // 1MB
	uploadBodyLimit = 6 << 20 // ICS 文件上限 5MB + multipart 开销

	exportRateLimit  = 20
	exportRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎。rdb 为 nil 时不做限流。
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（均需认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))

	api := v1.Group("", middleware.BodyLimit(jsonBodyLimit))
	{
		// 日历模块
		cal := api.Group("/calendar")
		{
			cal.GET("/events", h.Calendar.ListEvents)
			cal.GET("/week", h.Calendar.GetWeek)
			cal.GET("/day", h.Calendar.GetDay)
			cal.GET("/month", h.Calendar.GetMonth)
			cal.GET("/stats", h.Calendar.GetStats)
			cal.GET("/export.ics", middleware.RateLimit(rdb, exportRateLimit, exportRateWindow), h.Calendar.ExportICS)
			cal.GET("/print", middleware.RateLimit(rdb, exportRateLimit, exportRateWindow), h.Calendar.Print)
		}

		// 课次与作业详情
		api.GET("/courses/:id", h.Course.GetCourse)
		api.PUT("/courses/:id/status", middleware.RoleAuth(jwt.RoleTeacher, jwt.RoleAdmin), h.Course.UpdateStatus)
		api.GET("/assignments/:id", h.Course.GetAssignment)

		// 周期时段模块（管理员）
		slots := api.Group("/slots", middleware.RoleAuth(jwt.RoleAdmin))
		{
			slots.GET("", h.Slot.ListSlots)
			slots.POST("", h.Slot.CreateSlot)
			slots.DELETE("/:id", h.Slot.DeleteSlot)
		}
	}

	// ICS 上传单独放宽请求体上限
	v1.POST("/slots/import",
		middleware.RoleAuth(jwt.RoleAdmin),
		middleware.BodyLimit(uploadBodyLimit),
		h.Slot.ImportSlots,
	)

	return r
}
