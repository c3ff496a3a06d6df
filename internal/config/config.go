package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Assist   AssistConfig
	Security SecurityConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	StreamLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	DefaultModel  string
	OpenAIBaseURL string
	OpenAIKey     string
	DeepSeekURL   string
	DeepSeekKey   string
	OllamaBaseURL string
	OllamaModel   string
}

// AssistConfig bounds the helper endpoints (title suggestion, prompt
// enhancement) so a single user cannot drain the provider quota.
type AssistConfig struct {
	RateLimitPerMinute int
	RequestTimeoutSecs int
}

type SecurityConfig struct {
	JwtSecret string
	// KeyEncryptionSecret must be 32 bytes once decoded; it seals stored
	// provider API keys at rest.
	KeyEncryptionSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			StreamLogFilePath:  getEnv("STREAM_LOG_FILE_PATH", "stream.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "s3rd-chat"),
		},
		Ai: AIConfig{
			DefaultModel:  getEnv("DEFAULT_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			DeepSeekURL:   getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			DeepSeekKey:   getEnv("DEEPSEEK_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		},
		Assist: AssistConfig{
			RateLimitPerMinute: getEnvAsInt("ASSIST_RATE_LIMIT_PER_MINUTE", 10),
			RequestTimeoutSecs: getEnvAsInt("ASSIST_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Security: SecurityConfig{
			JwtSecret:           getEnv("JWT_SECRET", ""),
			KeyEncryptionSecret: getEnv("KEY_ENCRYPTION_SECRET", ""),
		},
	}
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
