package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsort-api/internal/core/server"
	mdw "mailsort-api/internal/transport/http/middleware"
)

// Pinger 健康检查依赖（DB、缓存）
type Pinger func(ctx context.Context) error

type Options struct {
	MaxInFlight    int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	Ping           Pinger
}

func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	r := server.NewRouter(l)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", health(o.Ping))

	reg := NewRegistry()
	reg.Register(mods...)
	reg.MountAllAPI(&r.RouterGroup)

	return r
}

func health(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	}
}
