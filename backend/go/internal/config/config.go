package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address         string   `yaml:"address"`         // 监听地址 (例如: "127.0.0.1:8080")
	AllowedOrigins  []string `yaml:"allowedOrigins"`  // CORS 允许的来源
	ShutdownTimeout string   `yaml:"shutdownTimeout"` // 优雅关闭的等待时间 (例如: "10s")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// PersonaConfig 定义了助手的身份信息。
type PersonaConfig struct {
	DefaultName string            `yaml:"defaultName"` // profile 中缺少 name 时使用的名称
	Seed        map[string]string `yaml:"seed"`        // 启动时写入 profile 表的种子数据 (已存在的键不会被覆盖)
}

// LocalEngineConfig 定义了本地事实引擎子进程的配置。
type LocalEngineConfig struct {
	Path    string `yaml:"path"`    // 可执行文件路径，为空表示未配置
	Dir     string `yaml:"dir"`     // 子进程的工作目录
	Timeout string `yaml:"timeout"` // 硬超时 (例如: "5s")
}

// SearchCacheConfig 定义了搜索结果缓存的配置。
type SearchCacheConfig struct {
	Backend  string `yaml:"backend"`  // "none", "lru" 或 "redis"
	Capacity int    `yaml:"capacity"` // lru 的最大条目数
	TTL      string `yaml:"ttl"`      // 条目的存活时间 (例如: "10m")
}

// SearchConfig 定义了网络搜索回退的配置。
type SearchConfig struct {
	Provider    string            `yaml:"provider"`    // "none" 或 "duckduckgo"
	BaseURL     string            `yaml:"baseURL"`     // 搜索端点，为空时使用 DuckDuckGo HTML 端点
	Timeout     string            `yaml:"timeout"`     // 单次搜索超时 (例如: "10s")
	QuerySuffix string            `yaml:"querySuffix"` // 追加到查询后的固定后缀
	MaxResults  int               `yaml:"maxResults"`  // 拼接进摘要的最大结果数
	Cache       SearchCacheConfig `yaml:"cache"`       // 结果缓存
}

// OllamaConfig 包含了 Ollama 模型的配置。
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // Ollama 服务地址
	Model   string `yaml:"model"`   // 模型名称
}

// OpenAIConfig 包含了 OpenAI 兼容服务的配置。
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`  // API 密钥
	BaseURL string `yaml:"baseURL"` // 兼容服务地址，为空时使用官方地址
	Model   string `yaml:"model"`   // 模型名称
}

// GeminiConfig 包含了 Gemini 模型的配置。
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"` // Gemini API 密钥
	Model  string `yaml:"model"`  // Gemini 模型名称
}

// HuggingFaceConfig 包含了 Hugging Face Inference API 的配置。
type HuggingFaceConfig struct {
	APIKey  string `yaml:"apiKey"`  // API 密钥
	BaseURL string `yaml:"baseURL"` // 推理 API 地址
	Model   string `yaml:"model"`   // 模型名称
}

// LLMConfig 包含了不同LLM提供商的配置。
type LLMConfig struct {
	Provider    string            `yaml:"provider"` // LLM提供商 ("ollama", "openai", "gemini", "huggingface", "none")
	Timeout     string            `yaml:"timeout"`  // 单次推理超时 (例如: "60s")
	Ollama      OllamaConfig      `yaml:"ollama"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
}

// SQLiteConfig 定义了 SQLite 数据库的配置。
type SQLiteConfig struct {
	Path string `yaml:"path"` // 数据库文件路径
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"` // 是否发布问答事件
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topic   string   `yaml:"topic"`   // 问答事件主题
	Timeout string   `yaml:"timeout"` // 单次发布超时 (例如: "2s")
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	Driver string       `yaml:"driver"` // "sqlite" 或 "mysql"
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Algorithm   string            `yaml:"algorithm"` // 支持: "tokenBucket", "leakyBucket", "fixedWindow", "slidingWindowLog"
	FixedWindow FixedWindowConfig `yaml:"fixedWindow"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// FixedWindowConfig 定义了固定窗口计数器算法的配置。
type FixedWindowConfig struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"` // 例如: "1m", "30s"
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// MetricsConfig 定义了 Prometheus 指标的配置。
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App         AppInfo           `yaml:"app"`
	Server      ServerConfig      `yaml:"server"`
	Logger      LoggerConfig      `yaml:"logger"`
	Persona     PersonaConfig     `yaml:"persona"`
	LocalEngine LocalEngineConfig `yaml:"localEngine"`
	Search      SearchConfig      `yaml:"search"`
	LLM         LLMConfig         `yaml:"llm"`
	Databases   DatabaseConfigs   `yaml:"databases"`
	Middleware  MiddlewareConfig  `yaml:"middleware"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	// SearchBreaker 保护出站搜索请求，与入站中间件的熔断器相互独立。
	SearchBreaker CircuitBreakerConfig `yaml:"searchBreaker"`
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件，并填充默认值。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	return Parse(yamlFile)
}

// Parse 解析 YAML 内容，填充默认值并校验。
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回只包含默认值的配置。
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 为未设置的字段填充默认值。
func (c *AppConfig) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "chat_service"
	}
	if c.Server.Address == "" {
		c.Server.Address = "127.0.0.1:8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Persona.DefaultName == "" {
		c.Persona.DefaultName = "Jaffer"
	}
	if c.Persona.Seed == nil {
		c.Persona.Seed = map[string]string{
			"name": "Jaffer",
			"role": "Lead Developer @ Jaffer Agentic",
			"tech": "C++, React, Go, Ollama",
		}
	}
	if c.LocalEngine.Timeout == "" {
		c.LocalEngine.Timeout = "5s"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "none"
	}
	if c.Search.Timeout == "" {
		c.Search.Timeout = "10s"
	}
	if c.Search.QuerySuffix == "" {
		c.Search.QuerySuffix = "today February 10 2026"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.Cache.Backend == "" {
		c.Search.Cache.Backend = "none"
	}
	if c.Search.Cache.Capacity <= 0 {
		c.Search.Cache.Capacity = 256
	}
	if c.Search.Cache.TTL == "" {
		c.Search.Cache.TTL = "10m"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = "60s"
	}
	if c.LLM.Ollama.Model == "" {
		c.LLM.Ollama.Model = "llama3.1:8b"
	}
	if c.Databases.Driver == "" {
		c.Databases.Driver = "sqlite"
	}
	if c.Databases.SQLite.Path == "" {
		c.Databases.SQLite.Path = "memory.db"
	}
	if c.Databases.Kafka.Topic == "" {
		c.Databases.Kafka.Topic = "chat_exchanges"
	}
	if c.Databases.Kafka.Timeout == "" {
		c.Databases.Kafka.Timeout = "2s"
	}
	if c.SearchBreaker.Timeout == "" {
		c.SearchBreaker.Timeout = "30s"
	}
	if c.SearchBreaker.FailureThreshold == 0 {
		c.SearchBreaker.FailureThreshold = 3
	}
	if c.SearchBreaker.SuccessThreshold == 0 {
		c.SearchBreaker.SuccessThreshold = 1
	}
	if c.Middleware.CircuitBreaker.Timeout == "" {
		c.Middleware.CircuitBreaker.Timeout = "30s"
	}
}

// Validate 检查取值是否合法，所有时长字段必须能被 time.ParseDuration 解析。
func (c *AppConfig) Validate() error {
	durations := map[string]string{
		"server.shutdownTimeout":            c.Server.ShutdownTimeout,
		"localEngine.timeout":               c.LocalEngine.Timeout,
		"search.timeout":                    c.Search.Timeout,
		"search.cache.ttl":                  c.Search.Cache.TTL,
		"llm.timeout":                       c.LLM.Timeout,
		"databases.kafka.timeout":           c.Databases.Kafka.Timeout,
		"searchBreaker.timeout":             c.SearchBreaker.Timeout,
		"middleware.circuitBreaker.timeout": c.Middleware.CircuitBreaker.Timeout,
	}
	for field, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("配置项 %s 不是合法的时长 %q: %w", field, value, err)
		}
	}
	switch c.Databases.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Databases.Driver)
	}
	switch c.Search.Provider {
	case "none", "duckduckgo":
	default:
		return fmt.Errorf("不支持的搜索提供商: %s", c.Search.Provider)
	}
	switch c.LLM.Provider {
	case "none", "ollama", "openai", "gemini", "huggingface":
	default:
		return fmt.Errorf("不支持的 LLM 提供商: %s", c.LLM.Provider)
	}
	switch c.Search.Cache.Backend {
	case "none", "lru", "redis":
	default:
		return fmt.Errorf("不支持的搜索缓存后端: %s", c.Search.Cache.Backend)
	}
	return nil
}

// Duration 解析一个已校验过的时长字符串，解析失败时返回 fallback。
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
