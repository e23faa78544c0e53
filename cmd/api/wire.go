//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appaccount "github.com/xiebiao/booknerds/internal/application/account"
	appreview "github.com/xiebiao/booknerds/internal/application/review"
	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence"
	"github.com/xiebiao/booknerds/internal/interface/http/handler"
	"github.com/xiebiao/booknerds/internal/interface/http/middleware"
)

// infrastructureSet 存储、图书目录、消息队列
var infrastructureSet = wire.NewSet(
	persistence.New,
	provideAccountRepository,
	provideReviewRepository,
	provideCatalog,
	providePublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	account.NewService,
	review.NewService,
	provideBreakGlass,
	account.NewAuthenticator,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appaccount.NewRegisterUseCase,
	appaccount.NewLoginUseCase,
	appaccount.NewAdminUseCase,
	appreview.NewReviewUseCase,
	provideBookUseCase,
)

// interfaceSet HTTP层
var interfaceSet = wire.NewSet(
	middleware.NewBasicAuth,
	handler.NewAccountHandler,
	handler.NewReviewHandler,
	handler.NewBookHandler,
	provideEngine,
)

// InitializeApp 组装应用
// 返回的cleanup按创建的逆序关闭消息队列、Redis、数据库
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
