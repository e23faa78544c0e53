package account

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
	"github.com/xiebiao/booknerds/pkg/mq"
)

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc      account.Service
	auth     *account.Authenticator
	pub      *recordingPublisher
	register *RegisterUseCase
	login    *LoginUseCase
	admin    *AdminUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	svc := account.NewService(store.Accounts())
	_, _, err := svc.EnsureBootstrapAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	auth := account.NewAuthenticator(store.Accounts(), account.BreakGlassPolicy{})
	pub := &recordingPublisher{}
	return &fixture{
		svc:      svc,
		auth:     auth,
		pub:      pub,
		register: NewRegisterUseCase(svc, pub),
		login:    NewLoginUseCase(auth),
		admin:    NewAdminUseCase(svc, pub),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.register.Execute(ctx, RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "guest", resp.User.Role)
	assert.Equal(t, []string{mq.KeyAccountRegistered}, f.pub.keys)

	logged, err := f.login.Execute(ctx, LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", logged.Message)
	assert.Equal(t, resp.User, logged.User)

	_, err = f.login.Execute(ctx, LoginRequest{Username: "alice", Password: "bad"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.register.Execute(ctx, RegisterRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Len(t, f.pub.keys, 1, "失败的注册不发布事件")
}

func TestAdminUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("创建账号并修改角色", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.admin.CreateUser(ctx, CreateUserRequest{Username: "mod", Password: "pw", Role: "admin"})
		require.NoError(t, err)
		assert.Equal(t, "admin", created.Role)

		guest, err := f.admin.CreateUser(ctx, CreateUserRequest{Username: "g", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "guest", guest.Role)

		_, err = f.admin.CreateUser(ctx, CreateUserRequest{Username: "x", Password: "pw", Role: "root"})
		assert.ErrorIs(t, err, account.ErrInvalidPrivilege)

		changed, err := f.admin.ChangeRole(ctx, guest.ID, "admin")
		require.NoError(t, err)
		assert.Equal(t, "admin", changed.Role)

		_, err = f.admin.ChangeRole(ctx, account.BootstrapAccountID, "guest")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		users, err := f.admin.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 3)
		assert.Equal(t, "admin", users[0].Username)
	})

	t.Run("删除账号", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.register.Execute(ctx, RegisterRequest{Username: "alice", Password: "pw"})
		require.NoError(t, err)

		require.NoError(t, f.admin.DeleteUser(ctx, resp.User.ID))
		assert.Equal(t, []string{mq.KeyAccountRegistered, mq.KeyAccountDeleted}, f.pub.keys)

		err = f.admin.DeleteUser(ctx, account.BootstrapAccountID)
		assert.ErrorIs(t, err, account.ErrBootstrapUndeletable)
	})

	t.Run("检查管理员", func(t *testing.T) {
		f := newFixture(t)

		check, err := f.admin.CheckAdmin(ctx, account.BootstrapAccountID)
		require.NoError(t, err)
		assert.True(t, check.IsAdmin)
		assert.Equal(t, "User is an admin", check.Message)

		resp, err := f.register.Execute(ctx, RegisterRequest{Username: "alice", Password: "pw"})
		require.NoError(t, err)
		check, err = f.admin.CheckAdmin(ctx, resp.User.ID)
		require.NoError(t, err)
		assert.False(t, check.IsAdmin)
		assert.Equal(t, "User is not an admin", check.Message)

		_, err = f.admin.CheckAdmin(ctx, 404)
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})
}
