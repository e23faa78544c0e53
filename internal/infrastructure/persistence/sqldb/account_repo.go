package sqldb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/booknerds/internal/domain/account"
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
)

// accountRepository 账号仓储实现（GORM）
// 1. 实现domain/account/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 把数据库错误（唯一索引冲突、记录不存在）转换为领域错误
type accountRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewAccountRepository 创建账号仓储
func NewAccountRepository(db *gorm.DB, tx *TxManager) account.Repository {
	return &accountRepository{db: db, tx: tx}
}

// Create 创建账号
// 用户名唯一性由UNIQUE索引保证，并发注册时后插入的一方拿到Conflict
func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	model := &AccountModel{
		Username:  a.Username,
		Password:  a.Password,
		Role:      a.Privilege.String(),
		CreatedAt: a.CreatedAt,
	}

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return account.ErrUsernameTaken
		}
		return apperrors.Wrap(err, "创建账号失败")
	}

	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return nil
}

func (r *accountRepository) FindByCredentials(ctx context.Context, username, password string) (*account.Account, error) {
	var model AccountModel
	err := conn(ctx, r.db).
		Where("username = ? AND password = ?", username, password).
		First(&model).Error
	return r.one(&model, err)
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*account.Account, error) {
	var model AccountModel
	err := conn(ctx, r.db).First(&model, id).Error
	return r.one(&model, err)
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	var model AccountModel
	err := conn(ctx, r.db).Where("username = ?", username).First(&model).Error
	return r.one(&model, err)
}

// List 不查询password列
func (r *accountRepository) List(ctx context.Context) ([]*account.Account, error) {
	var models []AccountModel
	err := conn(ctx, r.db).
		Select("id", "username", "role", "created_at").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询账号列表失败")
	}

	out := make([]*account.Account, 0, len(models))
	for i := range models {
		out = append(out, toAccount(&models[i]))
	}
	return out, nil
}

// UpdatePrivilege 修改角色
// MySQL在值未变化时RowsAffected为0，需要再确认记录是否存在
func (r *accountRepository) UpdatePrivilege(ctx context.Context, id uint, privilege account.Privilege) error {
	result := conn(ctx, r.db).
		Model(&AccountModel{}).
		Where("id = ?", id).
		Update("role", privilege.String())
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "修改账号角色失败")
	}

	if result.RowsAffected == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}
	return nil
}

// DeleteWithReviews 级联删除
// 事务内顺序：先删书评，再删账号；任一步失败整体回滚
func (r *accountRepository) DeleteWithReviews(ctx context.Context, id uint) error {
	return r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		if err := db.Where("user_id = ?", id).Delete(&ReviewModel{}).Error; err != nil {
			return apperrors.Wrap(err, "删除账号书评失败")
		}

		result := db.Delete(&AccountModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除账号失败")
		}
		if result.RowsAffected == 0 {
			return account.ErrAccountNotFound
		}
		return nil
	})
}

func (r *accountRepository) one(model *AccountModel, err error) (*account.Account, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "查询账号失败")
	}
	return toAccount(model), nil
}

// toAccount GORM模型 → 领域实体
// 存储中出现未知角色时按访客处理
func toAccount(model *AccountModel) *account.Account {
	privilege, err := account.ParsePrivilege(model.Role)
	if err != nil {
		privilege = account.PrivilegeGuest
	}
	return &account.Account{
		ID:        model.ID,
		Username:  model.Username,
		Password:  model.Password,
		Privilege: privilege,
		CreatedAt: model.CreatedAt,
	}
}
