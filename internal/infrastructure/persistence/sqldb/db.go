package sqldb

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/booknerds/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 按database.driver选择MySQL或PostgreSQL方言，仓储代码与方言无关
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. TranslateError把驱动的唯一索引/外键错误统一成gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	zap.L().Info("数据库连接成功",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("sqldb不支持的驱动: %s", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AccountModel{},
		&ReviewModel{},
	)
}

// AccountModel GORM账号模型
// domain/account是领域实体，不依赖GORM；Repository负责两者之间的转换
// 硬删除（没有DeletedAt），保证书评不会引用已删除的账号
type AccountModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:100;not null;comment:用户名"`
	Password  string    `gorm:"size:255;not null;comment:密码"`
	Role      string    `gorm:"size:20;not null;comment:角色(guest/admin)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (AccountModel) TableName() string {
	return "accounts"
}

// ReviewModel GORM书评模型
// 1. UserID外键关联accounts表，删除账号前必须先删书评（RESTRICT）
// 2. BookID是外部目录ID，建索引支撑按书查询和聚合
// 3. CreatedAt建索引支撑按时间倒序
type ReviewModel struct {
	ID          uint          `gorm:"primaryKey"`
	UserID      uint          `gorm:"index;not null;comment:账号ID"`
	Account     *AccountModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	BookID      string        `gorm:"index;size:64;not null;comment:外部图书ID"`
	BookTitle   string        `gorm:"size:500;not null;comment:书名（冗余）"`
	ReviewText  string        `gorm:"type:text;not null;comment:书评内容"`
	Rating      int           `gorm:"not null;comment:评分"`
	Recommended bool          `gorm:"not null;comment:是否推荐"`
	CreatedAt   time.Time     `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
