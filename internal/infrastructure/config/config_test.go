package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	t.Run("文件值覆盖默认值", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 8081
database:
  driver: postgres
  port: 5432
catalog:
  default_query: golang
`)
		cfg, err := LoadFrom(path)
		require.NoError(t, err)

		assert.Equal(t, 8081, cfg.Server.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "golang", cfg.Catalog.DefaultQuery)

		// 未写的key使用默认值
		assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
		assert.Equal(t, "admin", cfg.Auth.BootstrapUsername)
		assert.True(t, cfg.Auth.BreakGlassEnabled)
		assert.False(t, cfg.Redis.Enabled)
		t.Logf("✓ 配置加载成功: port=%d driver=%s", cfg.Server.Port, cfg.Database.Driver)
	})

	t.Run("环境变量覆盖文件", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 8081\n")
		t.Setenv("BOOKNERDS_SERVER_PORT", "9090")
		t.Setenv("BOOKNERDS_AUTH_BREAK_GLASS_ENABLED", "false")
		t.Setenv("BOOKNERDS_CATALOG_BREAKER_CONSECUTIVE_FAILURES", "3")

		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.False(t, cfg.Auth.BreakGlassEnabled)
		assert.Equal(t, uint32(3), cfg.Catalog.Breaker.ConsecutiveFailures)
	})

	t.Run("不支持的驱动", func(t *testing.T) {
		path := writeConfig(t, "database:\n  driver: sqlite\n")
		_, err := LoadFrom(path)
		assert.Error(t, err)
	})

	t.Run("非法端口", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 70000\n")
		_, err := LoadFrom(path)
		assert.Error(t, err)
	})

	t.Run("非法运行模式", func(t *testing.T) {
		path := writeConfig(t, "server:\n  mode: prod\n")
		_, err := LoadFrom(path)
		assert.Error(t, err)
	})

	t.Run("启用MQ但缺少URL", func(t *testing.T) {
		path := writeConfig(t, "mq:\n  enabled: true\n  url: \"\"\n")
		_, err := LoadFrom(path)
		assert.Error(t, err)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "javascript", cfg.Catalog.DefaultQuery)
}

func TestLoad_EnvSelectsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"),
		[]byte("database:\n  driver: memory\n"), 0o644))

	chdir(t, dir)
	t.Setenv("BOOKNERDS_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestDSN(t *testing.T) {
	mysql := DatabaseConfig{
		Driver: DriverMySQL, User: "root", Password: "pw", Host: "db", Port: 3306,
		DBName: "booknerds", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/booknerds?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", mysql.DSN())

	pg := DatabaseConfig{
		Driver: DriverPostgres, User: "postgres", Password: "pw", Host: "db", Port: 5432,
		DBName: "booknerds", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=postgres password=pw dbname=booknerds sslmode=disable", pg.DSN())

	assert.Equal(t, "localhost:6379", RedisConfig{Host: "localhost", Port: 6379}.Addr())
}

// chdir 切换工作目录并在测试结束时恢复（等价于 Go 1.24 的 t.Chdir）。
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
