package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bububa/qa-agents/schema"
)

// Config 应用配置
type Config struct {
	OpenAI OpenAIConfig    `yaml:"openai"`
	Models ModelsConfig    `yaml:"models"`
	Search SearchConfig    `yaml:"search"`
	RAG    RAGConfig       `yaml:"rag"`
	Agents AgentsConfig    `yaml:"agents"`
	Log    LogConfig       `yaml:"log"`
	User   schema.UserInfo `yaml:"user"`
}

// OpenAIConfig OpenAI 兼容接口配置
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl" validate:"omitempty,url"`
}

// ModelsConfig 各智能体使用的模型，留空则使用 default
type ModelsConfig struct {
	Default string `yaml:"default" validate:"required"`
	Safety  string `yaml:"safety"`
	Math    string `yaml:"math"`
	Refine  string `yaml:"refine"`
	Main    string `yaml:"main"`
	Rate    string `yaml:"rate"`
	RAG     string `yaml:"rag"`
}

// SearchConfig 网络搜索配置
type SearchConfig struct {
	Provider   string `yaml:"provider" validate:"oneof=tavily searxng"`
	APIKey     string `yaml:"apiKey"`
	BaseURL    string `yaml:"baseUrl" validate:"omitempty,url"`
	Language   string `yaml:"language"`
	MaxResults int    `yaml:"maxResults" validate:"gte=1,lte=20"`
}

// RAGConfig 文档检索配置
type RAGConfig struct {
	Source         string `yaml:"source"`
	Engine         string `yaml:"engine" validate:"oneof=chromem memory"`
	PersistDir     string `yaml:"persistDir" validate:"required"`
	Collection     string `yaml:"collection" validate:"required"`
	TopK           int    `yaml:"topK" validate:"gte=1"`
	EmbeddingModel string `yaml:"embeddingModel" validate:"required"`
	ChunkSize      int    `yaml:"chunkSize" validate:"gte=16"`
	ChunkOverlap   int    `yaml:"chunkOverlap" validate:"gte=0,ltfield=ChunkSize"`
	Compress       bool   `yaml:"compress"`
}

// AgentsConfig 智能体运行配置
type AgentsConfig struct {
	MaxTurns    int     `yaml:"maxTurns" validate:"gte=1"`
	OutputMode  string  `yaml:"outputMode" validate:"oneof=json_schema json_object"`
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"maxTokens" validate:"gte=0"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"` // debug, info, warn, error
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Models: ModelsConfig{
			Default: "gpt-4o-mini",
		},
		Search: SearchConfig{
			Provider:   "tavily",
			MaxResults: 3,
		},
		RAG: RAGConfig{
			Source:         "./DeepSeek-R1-zh.pdf",
			Engine:         "chromem",
			PersistDir:     "./storage_chroma",
			Collection:     "deepseek_docs",
			TopK:           5,
			EmbeddingModel: "text-embedding-3-small",
			ChunkSize:      512,
			ChunkOverlap:   64,
		},
		Agents: AgentsConfig{
			MaxTurns:   10,
			OutputMode: "json_schema",
		},
		Log: LogConfig{
			Level: "info",
		},
		User: schema.UserInfo{
			UserID:   "ID001",
			UserName: "张三",
		},
	}
}

// Override changes the loaded configuration before it is validated, e.g. from command line flags
type Override func(*Config)

// WithModel replaces models.default when model is not empty
func WithModel(model string) Override {
	return func(c *Config) {
		if model != "" {
			c.Models.Default = model
		}
	}
}

// WithLogLevel replaces log.level when level is not empty
func WithLogLevel(level string) Override {
	return func(c *Config) {
		if level != "" {
			c.Log.Level = level
		}
	}
}

// Load 加载配置: defaults, then the YAML file at path when path is not empty, then environment variables,
// then overrides. The result is validated once, after every layer was applied.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}
	cfg.applyEnv(os.Getenv)
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := getenv("TAVILY_API_KEY"); v != "" && c.Search.Provider == "tavily" {
		c.Search.APIKey = v
	}
	if v := getenv("SEARXNG_BASE_URL"); v != "" && c.Search.Provider == "searxng" {
		c.Search.BaseURL = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges. Missing API keys are reported by the services using them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return fmt.Errorf("配置无效: %s (%s=%v)", vErrs[0].Namespace(), vErrs[0].Tag(), vErrs[0].Value())
		}
		return fmt.Errorf("配置无效: %w", err)
	}
	return nil
}
