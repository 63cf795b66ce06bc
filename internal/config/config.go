package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the engine.
type Config struct {
	App         AppConfig
	Store       StoreConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	Data        DataConfig
	Engine      EngineConfig
	OpenAI      OpenAIConfig
	Maintenance MaintenanceConfig
	Metrics     MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreBackend selects the ticket persistence implementation.
type StoreBackend string

const (
	StoreFile     StoreBackend = "file"
	StoreRedis    StoreBackend = "redis"
	StorePostgres StoreBackend = "postgres"
)

// StoreConfig selects and parameterizes the ticket store.
type StoreConfig struct {
	Backend  StoreBackend
	FilePath string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// DataConfig points at the static JSON data files loaded at startup.
type DataConfig struct {
	IntentRulesPath   string
	ReferenceDataPath string
	KnowledgeBasePath string
	MoodModelPath     string
}

// EngineConfig carries the similarity thresholds of the conversation
// pipeline. Defaults match the tuned values of the production data set.
type EngineConfig struct {
	FAQThreshold    float64
	IntentFloor     float64
	MoodMinProb     float64
	MoodAnchorFloor float64
}

// OpenAIConfig configures the embedding and review models. An empty API
// key leaves the semantic layers in degraded (lexicon-only) mode.
type OpenAIConfig struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	ReviewEnabled  bool
}

// MaintenanceConfig drives the stale-ticket sweep.
type MaintenanceConfig struct {
	Schedule     string
	IdleTTLHours int
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Addr string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := StoreBackend(getEnv("TICKET_STORE", string(StoreFile)))
	switch backend {
	case StoreFile, StoreRedis, StorePostgres:
	default:
		return nil, fmt.Errorf("invalid TICKET_STORE: %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-automation-engine"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Backend:  backend,
			FilePath: getEnv("TICKET_STORE_FILE", "data/tickets.json"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "ticket:"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			IntentRulesPath:   getEnv("INTENT_RULES_PATH", "config/intent_rules.json"),
			ReferenceDataPath: getEnv("REFERENCE_DATA_PATH", "config/reference_data.json"),
			KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", "config/knowledge_base.json"),
			MoodModelPath:     getEnv("MOOD_MODEL_PATH", ""),
		},
		Engine: EngineConfig{
			FAQThreshold:    getEnvAsFloat("ENGINE_FAQ_THRESHOLD", 0.60),
			IntentFloor:     getEnvAsFloat("ENGINE_INTENT_FLOOR", 0.25),
			MoodMinProb:     getEnvAsFloat("ENGINE_MOOD_MIN_PROB", 0.50),
			MoodAnchorFloor: getEnvAsFloat("ENGINE_MOOD_ANCHOR_FLOOR", 0.35),
		},
		OpenAI: OpenAIConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ReviewEnabled:  getEnvAsBool("COMPLIANCE_REVIEW_ENABLED", true),
		},
		Maintenance: MaintenanceConfig{
			Schedule:     getEnv("MAINTENANCE_SCHEDULE", "@every 1h"),
			IdleTTLHours: getEnvAsInt("MAINTENANCE_IDLE_TTL_HOURS", 72),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":9091"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IdleTTL returns the stale-ticket cutoff as a duration.
func (m MaintenanceConfig) IdleTTL() time.Duration {
	if m.IdleTTLHours <= 0 {
		return 0
	}
	return time.Duration(m.IdleTTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
