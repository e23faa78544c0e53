// Package persistence 按配置选择存储实现
//
//	database.driver = mysql | postgres → sqldb（GORM）
//	database.driver = memory           → memory（进程内，重启丢失）
package persistence

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence/sqldb"
)

// Repositories 仓储集合
type Repositories struct {
	Accounts account.Repository
	Reviews  review.Repository
}

// New 打开存储并创建仓储，返回的cleanup负责关闭连接
func New(cfg *config.Config) (*Repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		zap.L().Warn("使用内存存储，数据在进程退出后丢失")
		return &Repositories{
			Accounts: store.Accounts(),
			Reviews:  store.Reviews(),
		}, func() {}, nil

	case config.DriverMySQL, config.DriverPostgres:
		db, err := sqldb.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := sqldb.Close(db); err != nil {
				zap.L().Error("关闭数据库连接失败", zap.Error(err))
			}
		}
		return &Repositories{
			Accounts: sqldb.NewAccountRepository(db, sqldb.NewTxManager(db)),
			Reviews:  sqldb.NewReviewRepository(db),
		}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Database.Driver)
	}
}
