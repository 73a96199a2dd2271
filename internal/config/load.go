package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "REHAB"

var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.shutdown_timeout": 10 * time.Second,
	"server.max_upload_bytes": int64(10 << 20),

	"database.url":               "",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 5 * time.Minute,

	"llm.provider":    "openai",
	"llm.api_key":     "",
	"llm.base_url":    "https://api-inference.modelscope.cn/v1",
	"llm.model":       "deepseek-ai/DeepSeek-V3.2",
	"llm.temperature": 0.7,
	"llm.max_retries": 3,
	"llm.base_delay":  time.Second,
	"llm.timeout":     120 * time.Second,

	"embedding.api_key":    "",
	"embedding.base_url":   "https://api.siliconflow.cn/v1",
	"embedding.model":      "BAAI/bge-large-zh-v1.5",
	"embedding.cache_size": 1024,

	"knowledge.persist_path":  "data/knowledge",
	"knowledge.collection":    "rehab_knowledge",
	"knowledge.chunk_size":    800,
	"knowledge.chunk_overlap": 100,
	"knowledge.top_k":         3,
	"knowledge.concurrency":   4,

	"extraction.max_phrases":        80,
	"extraction.max_content_length": 8000,
	"extraction.max_corpus_runes":   500000,

	"schedule.cadence":     "weekday",
	"schedule.roster_file": "",

	"task.worker_count":   2,
	"task.queue_size":     100,
	"task.stuck_task_age": 30 * time.Minute,

	"metrics.enabled": true,
	"metrics.path":    "/metrics",
}

// Load configuration from environment variables and an optional config.yaml
// in the working directory. Environment variables take precedence over values
// from the file. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path looks for
// config.yaml in the working directory and tolerates its absence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LLMEnabled reports whether a completion provider is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.APIKey != ""
}

// KnowledgeEnabled reports whether the embedding service is configured.
func (c *Config) KnowledgeEnabled() bool {
	return c.Embedding.APIKey != ""
}
