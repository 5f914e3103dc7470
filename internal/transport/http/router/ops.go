package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mailsort-api/internal/core/server"
)

// NewOpsEngine 运维端口：/metrics + /health，不对外暴露
func NewOpsEngine(l *zap.Logger, ping Pinger) *gin.Engine {
	r := server.NewRouter(l)
	r.GET("/health", health(ping))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
