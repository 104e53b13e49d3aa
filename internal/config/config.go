package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config 进程级配置，启动时加载一次，热更新由 configwatcher 重新加载
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Judge0    Judge0Config
	Redis     RedisConfig
	AI        AIConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

// JWTConfig ExpireTime 在配置文件里以小时计（expire_hours），加载后换算为 Duration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// StorageConfig type 取 local / minio / oss，只需填对应一组凭证
type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// Judge0Config 代码沙箱（Judge0 兼容接口）
// PollIntervalMS × MaxPollAttempts 决定单次执行的等待上限
type Judge0Config struct {
	APIKey          string `mapstructure:"api_key"`
	URL             string
	Host            string
	PollIntervalMS  int `mapstructure:"poll_interval_ms"`
	MaxPollAttempts int `mapstructure:"max_poll_attempts"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AIConfig AI 评审服务（Gemini 兼容接口）
type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// envBindings 敏感项和部署差异项允许用环境变量覆盖配置文件
var envBindings = [][2]string{
	{"server.mode", "SERVER_MODE"},
	{"database.host", "DATABASE_HOST"},
	{"database.port", "DATABASE_PORT"},
	{"database.user", "DATABASE_USER"},
	{"database.password", "DATABASE_PASSWORD"},
	{"database.dbname", "DATABASE_NAME"},
	{"jwt.secret", "JWT_SECRET"},
	{"redis.host", "REDIS_HOST"},
	{"redis.port", "REDIS_PORT"},
	{"redis.password", "REDIS_PASSWORD"},
	{"ai.base_url", "AI_BASE_URL"},
	{"ai.api_key", "AI_API_KEY"},
	{"ai.model", "AI_MODEL"},
	{"storage.type", "STORAGE_TYPE"},
	{"storage.oss_endpoint", "OSS_ENDPOINT"},
	{"storage.oss_access_key", "OSS_ACCESS_KEY"},
	{"storage.oss_secret_key", "OSS_SECRET_KEY"},
	{"storage.oss_bucket", "OSS_BUCKET"},
	{"storage.minio_endpoint", "MINIO_ENDPOINT"},
	{"storage.minio_access_key", "MINIO_ACCESS_KEY"},
	{"storage.minio_secret_key", "MINIO_SECRET_KEY"},
	{"storage.minio_bucket", "MINIO_BUCKET"},
	{"tracing.enabled", "TRACING_ENABLED"},
	{"tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT"},
	{"judge0.api_key", "JUDGE0_API_KEY"},
	{"judge0.url", "JUDGE0_URL"},
	{"judge0.host", "JUDGE0_HOST"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("judge0.url", "https://ce.judge0.com")
	v.SetDefault("judge0.poll_interval_ms", 1000)
	v.SetDefault("judge0.max_poll_attempts", 10)
}

// LoadConfig 读取 path 下的 config.yaml 并应用环境变量覆盖
// 每次调用都新建 viper 实例，热更新重载时不会残留上一次的状态
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PORTFOLIO")
	v.AutomaticEnv()
	for _, b := range envBindings {
		v.BindEnv(b[0], b[1])
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if err := os.MkdirAll(cfg.Storage.LocalPath, 0755); err != nil {
			return nil, fmt.Errorf("创建本地存储目录失败: %w", err)
		}
	}

	return &cfg, nil
}

// validate 挡掉明显不能上线的配置
func (c *Config) validate() error {
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	return nil
}
