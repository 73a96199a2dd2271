package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding" validate:"required"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge" validate:"required"`
	Extraction ExtractionConfig `mapstructure:"extraction" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Task       TaskConfig       `mapstructure:"task" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gt=0"`
}

// LLMConfig selects and tunes the text-completion provider.
// An empty APIKey disables the AI endpoints.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxRetries  int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay   time.Duration `mapstructure:"base_delay" validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding endpoint.
// An empty APIKey disables the knowledge base.
type EmbeddingConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	Model     string `mapstructure:"model" validate:"required"`
	CacheSize int    `mapstructure:"cache_size" validate:"gt=0"`
}

// KnowledgeConfig configures the vector store and chunking.
type KnowledgeConfig struct {
	PersistPath  string `mapstructure:"persist_path"`
	Collection   string `mapstructure:"collection" validate:"required"`
	ChunkSize    int    `mapstructure:"chunk_size" validate:"gt=0"`
	ChunkOverlap int    `mapstructure:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
	TopK         int    `mapstructure:"top_k" validate:"gt=0,lte=50"`
	Concurrency  int    `mapstructure:"concurrency" validate:"gt=0,lte=32"`
}

// ExtractionConfig bounds the phrase extraction pipeline.
type ExtractionConfig struct {
	MaxPhrases       int `mapstructure:"max_phrases" validate:"gt=0"`
	MaxContentLength int `mapstructure:"max_content_length" validate:"gt=0"`
	MaxCorpusRunes   int `mapstructure:"max_corpus_runes" validate:"gt=0"`
}

// ScheduleConfig selects the rounds cadence and the doctor roster.
type ScheduleConfig struct {
	Cadence    string `mapstructure:"cadence" validate:"required,oneof=weekday escalation"`
	RosterFile string `mapstructure:"roster_file"`
}

// TaskConfig configures the background task runner.
type TaskConfig struct {
	WorkerCount  int           `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize    int           `mapstructure:"queue_size" validate:"gt=0"`
	StuckTaskAge time.Duration `mapstructure:"stuck_task_age" validate:"gt=0"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}
