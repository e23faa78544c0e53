package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/booknerds/internal/application/book"
	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/catalog"
	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/internal/infrastructure/catalog/googlebooks"
	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/booknerds/internal/interface/http/handler"
	"github.com/xiebiao/booknerds/internal/interface/http/middleware"
	"github.com/xiebiao/booknerds/internal/interface/http/router"
	"github.com/xiebiao/booknerds/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine   *gin.Engine
	Accounts account.Service
}

func provideAccountRepository(repos *persistence.Repositories) account.Repository {
	return repos.Accounts
}

func provideReviewRepository(repos *persistence.Repositories) review.Repository {
	return repos.Reviews
}

// provideBreakGlass 从auth配置构造引导管理员快捷通道
func provideBreakGlass(cfg *config.Config) account.BreakGlassPolicy {
	return account.BreakGlassPolicy{
		Enabled:  cfg.Auth.BreakGlassEnabled,
		Username: cfg.Auth.BootstrapUsername,
		Password: cfg.Auth.BootstrapPassword,
	}
}

// provideCatalog 创建图书目录网关
// redis.enabled时外面包一层缓存；Redis连不上只告警，不影响启动
func provideCatalog(cfg *config.Config) (catalog.Gateway, func(), error) {
	client := googlebooks.NewClient(cfg.Catalog, &http.Client{Timeout: cfg.Catalog.Timeout})
	if !cfg.Redis.Enabled {
		return client, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()

	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		zap.L().Warn("Redis不可用，图书目录不使用缓存", zap.Error(err))
		return client, func() {}, nil
	}

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			zap.L().Error("关闭Redis连接失败", zap.Error(err))
		}
	}
	return redis.NewCatalogCache(rdb, client, cfg.Catalog.CacheTTL), cleanup, nil
}

// providePublisher mq.enabled时连接RabbitMQ，否则丢弃事件
func providePublisher(cfg *config.Config, logger *zap.Logger) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			logger.Error("关闭消息队列连接失败", zap.Error(err))
		}
	}
	return pub, cleanup, nil
}

func provideBookUseCase(gateway catalog.Gateway, reviews review.Service, cfg *config.Config) *appbook.BookUseCase {
	return appbook.NewBookUseCase(gateway, reviews, cfg.Catalog.DefaultQuery)
}

// provideEngine 设置运行模式并注册路由
func provideEngine(
	cfg *config.Config,
	logger *zap.Logger,
	basicAuth *middleware.BasicAuth,
	accountHandler *handler.AccountHandler,
	reviewHandler *handler.ReviewHandler,
	bookHandler *handler.BookHandler,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return router.New(logger, cfg.CORS, basicAuth, accountHandler, reviewHandler, bookHandler)
}
