package sqldb

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中保存事务DB的键（私有类型，避免与其他包冲突）
type txKey struct{}

// TxManager 事务管理器
// fn内通过同一个ctx调用的仓储方法都在同一事务中执行
// fn返回error时ROLLBACK，返回nil时COMMIT
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := conn(ctx, db).Where("user_id = ?", id).Delete(&ReviewModel{}).Error; err != nil {
//	        return err // 回滚
//	    }
//	    return conn(ctx, db).Delete(&AccountModel{}, id).Error
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 已经在事务中时复用外层事务
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn 取当前ctx中的事务DB，没有则使用普通连接
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
