package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"mailsort-api/internal/core/cache"
	"mailsort-api/internal/core/config"
	"mailsort-api/internal/core/database"
	"mailsort-api/internal/core/logger"
	"mailsort-api/internal/core/server"
	"mailsort-api/internal/feature/email"
	"mailsort-api/internal/feature/user"
	"mailsort-api/internal/repo"
	"mailsort-api/internal/service"
	"mailsort-api/internal/transport/http/handler"
	"mailsort-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, cleanup := newLogger(cfg)
	defer cleanup()

	gin.SetMode(server.Mode(cfg.App.Env))
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, l)
	defer func() { _ = database.Close(db) }()
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, &user.UserModel{}, &email.EmailModel{}); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}

	// 列表缓存（可选）
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		if err := c.Ping(context.Background()); err != nil {
			l.Warn("redis unreachable, list cache will fall back to db", zap.Error(err))
		} else {
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}
	ttl := time.Duration(cfg.Redis.ListTTLSec) * time.Second

	// 依赖
	userRepo := repo.NewUserRepo(db)
	emailRepo := repo.NewEmailRepo(db)
	userSvc := service.NewUserService(userRepo, c, ttl, l.Named("users"))
	emailSvc := service.NewEmailService(emailRepo, userRepo, c, ttl, l.Named("emails"))

	ping := func(ctx context.Context) error { return database.Ping(ctx, db) }

	// 路由
	r := router.NewAPIEngine(l, router.Options{
		MaxInFlight:    cfg.App.HTTP.MaxInFlight,
		MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
		Ping:           ping,
	}, handler.NewUserHandler(userSvc), handler.NewEmailHandler(emailSvc))

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	servers := []*http.Server{srv}

	baseURL := humanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	l.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("users", baseURL+"/users"),
		zap.String("emails", baseURL+"/emails"),
	)
	go listen(l, "api", srv)

	// 运维端口（/metrics、/health）
	if cfg.App.Admin.Port > 0 {
		opsAddr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
		ops := server.BuildServer(opsAddr, router.NewOpsEngine(l, ping), 5*time.Second, 10*time.Second, 60*time.Second)
		servers = append(servers, ops)
		l.Info("ops starting", zap.String("metrics", humanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)+"/metrics"))
		go listen(l, "ops", ops)
	}
	l.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range servers {
		_ = s.Shutdown(ctx)
	}
	l.Info("api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	return logger.New(logger.Options{
		App:   cfg.App.Name,
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     f.Enable,
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
}

func listen(l *zap.Logger, name string, srv *http.Server) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal(name+" start FAILED", zap.Error(err))
	}
}

func humanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + host + ":" + fmt.Sprint(port)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	sqlLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Writer:             sqlLog,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
