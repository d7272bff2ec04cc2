package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory-api/internal/core/auth"
	"inventory-api/internal/core/database"
	"inventory-api/internal/transport/http/handler"
	mdw "inventory-api/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：注册/登录公开，其余走 JWT
func NewAPIEngine(
	l *zap.Logger,
	db *gorm.DB,
	jwter *auth.JWTer,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		cors.Default(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	mountOps(r, db)

	api := r.Group("/api/v1")

	// 公开
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	// 鉴权
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))

	authed.GET("/auth/me", authH.Me)
	authed.POST("/auth/refresh", authH.Refresh)
	authed.PUT("/auth/profile", authH.UpdateProfile)
	authed.PUT("/auth/password", authH.ChangePassword)

	products := authed.Group("/products")
	products.POST("", productH.Create)
	products.GET("", productH.Search)
	products.GET("/low-stock", productH.LowStock)
	products.GET("/categories", productH.Categories)
	products.GET("/stats", productH.Stats)
	products.POST("/stock/bulk", productH.BulkStock)
	products.GET("/:id", productH.Get)
	products.PUT("/:id", productH.Update)
	products.DELETE("/:id", productH.Delete)
	products.PATCH("/:id/stock", productH.UpdateStock)
	products.PATCH("/:id/stock/adjust", productH.AdjustStock)

	return r
}

// mountOps 健康检查 + 指标
func mountOps(r *gin.Engine, db *gorm.DB) {
	r.GET("/health", func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
