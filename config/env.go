package config

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/rushteam/feedkit/pkg/validate"
)

// Env 是服务托管层的运行时配置，从环境变量加载。
// 链路各阶段的配置走 YAML（pipeline.LoadFromYAML）或代码装配，
// 这里只放部署相关的外围参数。
type Env struct {
	// LogLevel zerolog 日志级别（trace/debug/info/warn/error）
	LogLevel string `env:"FEEDKIT_LOG_LEVEL,default=info" validate:"oneof=trace debug info warn error"`

	// RedisAddr 非空时启用 Redis 存储（热门榜单、通知频控）
	RedisAddr string `env:"FEEDKIT_REDIS_ADDR,default="`
	RedisDB   int    `env:"FEEDKIT_REDIS_DB,default=0" validate:"gte=0"`

	// MetricsAddr 非空时暴露 Prometheus /metrics
	MetricsAddr string `env:"FEEDKIT_METRICS_ADDR,default="`

	// ModelPath 预训练打分模型权重文件
	ModelPath string `env:"FEEDKIT_MODEL_PATH,default="`

	// Feast 在线特征仓库（host 为空时不启用）
	FeastHost    string `env:"FEEDKIT_FEAST_HOST,default="`
	FeastPort    int    `env:"FEEDKIT_FEAST_PORT,default=6566" validate:"gte=1,lte=65535"`
	FeastProject string `env:"FEEDKIT_FEAST_PROJECT,default=feedkit"`
}

// LoadEnv 从环境变量加载并校验运行时配置。
// 工作目录存在 .env 文件时先行加载（本地开发便利，不覆盖已有变量）。
func LoadEnv() (*Env, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Env
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode env config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate env config: %w", err)
	}
	return &cfg, nil
}
