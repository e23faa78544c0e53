package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/booknerds/internal/domain/account"
)

// AccountRepository 账号仓储（内存实现）
type AccountRepository struct {
	s *Store
}

var _ account.Repository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.usernames[acc.Username]; taken {
		return account.ErrUsernameTaken
	}

	acc.ID = r.s.nextUserID
	r.s.nextUserID++
	acc.CreatedAt = r.s.stamp()

	cp := *acc
	r.s.accounts[acc.ID] = &cp
	r.s.usernames[acc.Username] = acc.ID
	return nil
}

func (r *AccountRepository) FindByCredentials(ctx context.Context, username, password string) (*account.Account, error) {
	acc, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if acc.Password != password {
		return nil, account.ErrAccountNotFound
	}
	return acc, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	acc, ok := r.s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usernames[username]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *r.s.accounts[id]
	return &cp, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*account.Account, 0, len(r.s.accounts))
	for _, acc := range r.s.accounts {
		out = append(out, acc.Sanitized())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AccountRepository) UpdatePrivilege(ctx context.Context, id uint, privilege account.Privilege) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	acc, ok := r.s.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	acc.Privilege = privilege
	return nil
}

// DeleteWithReviews 在写锁内先确认账号存在，再删书评、删账号
// 不存在时什么都不改
func (r *AccountRepository) DeleteWithReviews(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	acc, ok := r.s.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}

	for rid, rv := range r.s.reviews {
		if rv.UserID == id {
			delete(r.s.reviews, rid)
		}
	}
	delete(r.s.usernames, acc.Username)
	delete(r.s.accounts, id)
	return nil
}
