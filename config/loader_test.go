// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 清除可能影响加载结果的全局环境变量
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "FORMS_DB", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
}

// --- 默认配置测试 ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8000, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 800, cfg.LLM.MaxTokens)
	assert.Empty(t, cfg.LLM.APIKey)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "forms.db", cfg.Database.Name)
	assert.True(t, cfg.Database.AutoMigrate)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "formflow", cfg.Telemetry.ServiceName)
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
server:
  http_port: 8888
  request_timeout: 20s
  cors_allowed_origins: ["https://forms.example.com"]
llm:
  provider: deepseek
  model: deepseek-chat
  max_tokens: 1200
database:
  driver: postgres
  host: db.internal
  name: formflow
redis:
  enabled: true
  addr: cache:6379
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o600))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://forms.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, 1200, cfg.LLM.MaxTokens)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)

	// 未覆盖的字段保持默认值
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoader_MissingFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.HTTPPort)
}

func TestLoader_InvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0o600))

	_, err := NewLoader().WithConfigPath(configPath).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoader_PrefixedEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMFLOW_SERVER_HTTP_PORT", "9000")
	t.Setenv("FORMFLOW_SERVER_RATE_LIMIT_RPS", "2.5")
	t.Setenv("FORMFLOW_LLM_TIMEOUT", "15s")
	t.Setenv("FORMFLOW_REDIS_ENABLED", "true")
	t.Setenv("FORMFLOW_LOG_OUTPUT_PATHS", "stdout, /var/log/formflow.log")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"stdout", "/var/log/formflow.log"}, cfg.Log.OutputPaths)
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMFLOW_SERVER_HTTP_PORT", "not-a-port")

	_, err := NewLoader().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMFLOW_SERVER_HTTP_PORT")
}

func TestLoader_ConventionalEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("FORMS_DB", "/data/forms.db")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/data/forms.db", cfg.Database.Name)
}

func TestLoader_PrefixedEnvWinsOverConventional(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-plain")
	t.Setenv("FORMFLOW_LLM_API_KEY", "sk-prefixed")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-prefixed", cfg.LLM.APIKey)
}

func TestLoader_EnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0o600))
	// godotenv 写入进程环境，测试结束后由 t.Setenv 还原
	t.Setenv("OPENAI_API_KEY", "")
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))

	cfg, err := NewLoader().WithEnvFile(envPath, filepath.Join(t.TempDir(), "missing.env")).Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", cfg.LLM.APIKey)
}

func TestLoader_CustomValidator(t *testing.T) {
	clearEnv(t)
	_, err := NewLoader().WithValidator(func(c *Config) error { return c.Validate() }).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

// --- Validate 测试 ---

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.LLM.APIKey = "sk-test"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.LLM.APIKey = "  " }, wantErr: "api key is required"},
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 70000 }, wantErr: "invalid HTTP port"},
		{name: "zero max tokens", mutate: func(c *Config) { c.LLM.MaxTokens = 0 }, wantErr: "max_tokens"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: "unsupported database driver"},
		{name: "sample rate", mutate: func(c *Config) { c.Telemetry.SampleRate = 2 }, wantErr: "sample_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// --- Dialect 测试 ---

func TestDatabaseConfig_Dialect(t *testing.T) {
	tests := []struct {
		name       string
		cfg        DatabaseConfig
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{name: "sqlite default", cfg: DatabaseConfig{Driver: "sqlite", Name: "forms.db"}, wantDriver: "sqlite", wantDSN: "forms.db"},
		{name: "empty driver is sqlite", cfg: DatabaseConfig{Name: "x.db"}, wantDriver: "sqlite", wantDSN: "x.db"},
		{
			name:       "postgres",
			cfg:        DatabaseConfig{Driver: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", Name: "d", SSLMode: "disable"},
			wantDriver: "postgres",
			wantDSN:    "host=h port=5432 user=u password=p dbname=d sslmode=disable",
		},
		{
			name:       "mysql",
			cfg:        DatabaseConfig{Driver: "mysql", Host: "h", Port: 3306, User: "u", Password: "p", Name: "d"},
			wantDriver: "mysql",
			wantDSN:    "u:p@tcp(h:3306)/d?parseTime=true&multiStatements=true",
		},
		{name: "sqlite url", cfg: DatabaseConfig{Driver: "postgres", URL: "sqlite:///forms.db"}, wantDriver: "sqlite", wantDSN: "forms.db"},
		{name: "sqlite absolute url", cfg: DatabaseConfig{URL: "sqlite:////data/forms.db"}, wantDriver: "sqlite", wantDSN: "/data/forms.db"},
		{name: "postgresql url", cfg: DatabaseConfig{URL: "postgresql://u:p@h/d"}, wantDriver: "postgres", wantDSN: "postgres://u:p@h/d"},
		{name: "mysql url", cfg: DatabaseConfig{URL: "mysql://u:p@tcp(h)/d"}, wantDriver: "mysql", wantDSN: "u:p@tcp(h)/d"},
		{name: "no scheme", cfg: DatabaseConfig{URL: "forms.db"}, wantErr: true},
		{name: "unknown scheme", cfg: DatabaseConfig{URL: "mongodb://h/d"}, wantErr: true},
		{name: "unknown driver", cfg: DatabaseConfig{Driver: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := tt.cfg.Dialect()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}
