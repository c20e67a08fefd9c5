package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// 支持的大模型提供方。
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
	ProviderMock   = "mock"
)

// 会话存储后端。
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Session: session}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述补全服务相关配置。温度、输出长度与超时是固定值，不在此暴露。
type AIConfig struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	AccessKey string
	SecretKey string
	Region    string
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderMock:
		return true
	case ProviderArk:
		return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
	default:
		return c.APIKey != "" && c.Model != ""
	}
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context, temperature float32, maxTokens int) (model.ChatModel, error) {
	if c.Provider != ProviderArk || !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + AI_MODEL 或 AK/SK 组合")
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGroq))

	switch provider {
	case ProviderGroq:
		return AIConfig{
			Provider: provider,
			APIKey:   strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
			Model:    getEnvOrDefault("AI_MODEL", "llama-3.1-8b-instant"),
			BaseURL:  getEnvOrDefault("AI_BASE_URL", "https://api.groq.com/openai/v1"),
		}, nil
	case ProviderOpenAI:
		return AIConfig{
			Provider: provider,
			APIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			Model:    getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
			BaseURL:  getEnvOrDefault("AI_BASE_URL", ""),
		}, nil
	case ProviderArk:
		return AIConfig{
			Provider:  provider,
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:     strings.TrimSpace(os.Getenv("AI_MODEL")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		}, nil
	case ProviderMock:
		return AIConfig{Provider: provider, Model: "echo"}, nil
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", provider)
	}
}

// SessionConfig 描述会话存储与生命周期。
type SessionConfig struct {
	Backend       string
	TTL           time.Duration
	MaxSessions   int
	SweepInterval time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func loadSessionConfig() (SessionConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("SESSION_BACKEND", BackendMemory))
	if backend != BackendMemory && backend != BackendRedis {
		return SessionConfig{}, fmt.Errorf("invalid SESSION_BACKEND value %q", backend)
	}

	ttl, err := parseDurationEnv("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return SessionConfig{}, err
	}

	sweep, err := parseDurationEnv("SESSION_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return SessionConfig{}, err
	}

	maxSessions := 10000
	if override, err := parseOptionalIntEnv("SESSION_MAX"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return SessionConfig{}, fmt.Errorf("invalid SESSION_MAX value %d: must be >= 0", *override)
		}
		maxSessions = *override
	}

	redisDB := 0
	if db, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return SessionConfig{}, err
	} else if db != nil {
		redisDB = *db
	}

	return SessionConfig{
		Backend:       backend,
		TTL:           ttl,
		MaxSessions:   maxSessions,
		SweepInterval: sweep,
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:       redisDB,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return val, nil
}
