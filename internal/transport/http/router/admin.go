package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory-api/internal/core/auth"
	"inventory-api/internal/transport/http/handler"
	mdw "inventory-api/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：整组要求 admin 角色
func NewAdminEngine(
	l *zap.Logger,
	db *gorm.DB,
	jwter *auth.JWTer,
	adminH *handler.AdminHandler,
	productH *handler.ProductHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		cors.Default(),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	mountOps(r, db)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))

	admin.GET("/users", adminH.ListUsers)
	admin.PATCH("/users/:id/active", adminH.SetUserActive)

	// admin 的 scope 为空，天然全量
	admin.GET("/products", productH.Search)
	admin.GET("/products/:id", productH.Get)
	admin.GET("/stats", productH.Stats)

	return r
}
