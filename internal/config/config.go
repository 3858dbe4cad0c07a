package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Places   PlacesConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	OtelEnabled        bool
	OtelEndpoint       string
	OtelSampleRatio    float64
	AlertTopic         string // in-process queue of rate limit alerts
}

type DatabaseConfig struct {
	Connection  string
	StoreDriver string // "postgres" or "memory"
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertEmail string
}

type APIKeys struct {
	GoogleMaps   string
	GoogleGemini string
	Groq         string
	Jina         string
	HuggingFace  string
}

type PlacesConfig struct {
	BaseURL      string
	SearchRadius float64
	PageSize     int
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	EmbeddingCacheTTL time.Duration
	GeminiModel       string
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "groq", "openai", "ollama", "huggingface"
	LLMBaseURL        string
	RouterModel       string
	QueryModel        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OtelSampleRatio:    getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
			AlertTopic:         getEnv("ALERT_TOPIC_NAME", "RATE_LIMIT_ALERTS"),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			StoreDriver: getEnv("STORE_DRIVER", "postgres"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "wtf2eat"),
			AlertEmail: getEnv("ALERT_EMAIL", ""),
		},
		Keys: APIKeys{
			GoogleMaps:   getEnv("GMAPS_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Groq:         getEnv("GROQ_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Places: PlacesConfig{
			BaseURL:      getEnv("GMAPS_BASE_URL", ""),
			SearchRadius: getEnvAsFloat("GMAPS_SEARCH_RADIUS", 1000),
			PageSize:     getEnvAsInt("GMAPS_PAGE_SIZE", 9),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingCacheTTL: getEnvAsDuration("EMBEDDING_CACHE_TTL", 30*time.Minute),
			GeminiModel:       getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			RouterModel:       getEnv("ROUTER_MODEL", "deepseek-r1-distill-llama-70b"),
			QueryModel:        getEnv("QUERY_MODEL", "llama-3.1-8b-instant"),
		},
	}
}

// LLMKey picks the API key of the configured chat provider.
func (c *Config) LLMKey() string {
	if c.Ai.LLMProvider == "huggingface" {
		return c.Keys.HuggingFace
	}
	return c.Keys.Groq
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
