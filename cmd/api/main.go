package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/pkg/logger"
	"github.com/xiebiao/booknerds/pkg/metrics"
	"github.com/xiebiao/booknerds/pkg/tracing"
)

// @title           BookNerds API
// @version         1.0
// @description     图书书评服务：图书目录搜索、书评、排行榜与账号管理
// @host            localhost:3000
// @BasePath        /
// @securityDefinitions.basic BasicAuth
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zlog, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	// 3. 指标和追踪
	metrics.InitMetrics()

	shutdownTracer, err := tracing.InitTracer(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		zlog.Fatal("初始化追踪失败", zap.Error(err))
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	// 5. 引导管理员
	admin, created, err := app.Accounts.EnsureBootstrapAdmin(context.Background(), cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword)
	if err != nil {
		zlog.Fatal("创建引导管理员失败", zap.Error(err))
	}
	if created {
		zlog.Info("已创建引导管理员", zap.String("username", admin.Username), zap.Uint("id", admin.ID))
	}

	// 6. 启动HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
			zap.Bool("catalog_cache", cfg.Redis.Enabled),
			zap.Bool("events", cfg.MQ.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP服务异常退出", zap.Error(err))
		}
	}()

	// 7. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("HTTP服务关闭超时", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		zlog.Error("刷新追踪数据失败", zap.Error(err))
	}
	zlog.Info("服务已关闭")
}
