package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvProduction     = "production"
	DefaultAPIBaseURL = "http://localhost:8000"
)

type Config struct {
	App     AppConfig
	Client  ClientConfig
	Server  ServerConfig
	Ai      AIConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Environment string `validate:"required"`
	LogFilePath string `validate:"required"`
}

// ClientConfig drives the chat client. APIBaseURL is resolved once in Load.
type ClientConfig struct {
	APIBaseURL    string        `validate:"required,url"`
	PublicOrigin  string
	APIPath       string
	UploadTimeout time.Duration `validate:"gt=0"`
	AskTimeout    time.Duration `validate:"gt=0"`
}

// ServerConfig drives the development backend in cmd/rest.
type ServerConfig struct {
	Port               string `validate:"required,numeric"`
	APIPrefix          string
	StaticDir          string
	CorsAllowedOrigins string
	BodyLimitMB        int    `validate:"gt=0"`
	DocumentStore      string `validate:"oneof=memory redis"`
	RedisURL           string
	NatsURL            string // empty disables usage events
	DocumentTTL        time.Duration
}

type AIConfig struct {
	LLMProvider   string `validate:"oneof=ollama mock"`
	OllamaBaseURL string
	LLMModel      string
	TopChunks     int `validate:"gt=0"`
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	env := getEnv("GO_ENV", "development")
	production := env == EnvProduction || getEnvAsBool("PRODUCTION", false)
	if production {
		env = EnvProduction
	}

	apiPath := getEnv("API_PATH", "/api")
	publicOrigin := getEnv("PUBLIC_ORIGIN", "")

	apiPrefix := ""
	if production {
		apiPrefix = apiPath
	}

	return &Config{
		App: AppConfig{
			Environment: env,
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/docchat.log"),
		},
		Client: ClientConfig{
			APIBaseURL:    ResolveAPIBaseURL(getEnv("API_BASE_URL", ""), production, publicOrigin, apiPath),
			PublicOrigin:  publicOrigin,
			APIPath:       apiPath,
			UploadTimeout: getEnvAsDuration("UPLOAD_TIMEOUT", 30*time.Second),
			AskTimeout:    getEnvAsDuration("ASK_TIMEOUT", 60*time.Second),
		},
		Server: ServerConfig{
			Port:               getEnv("APP_PORT", "8000"),
			APIPrefix:          getEnv("API_PREFIX", apiPrefix),
			StaticDir:          getEnv("STATIC_DIR", "static"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 20),
			DocumentStore:      getEnv("DOCUMENT_STORE", "memory"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			NatsURL:            getEnv("NATS_URL", ""),
			DocumentTTL:        getEnvAsDuration("DOCUMENT_TTL", 24*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			TopChunks:     getEnvAsInt("RAG_TOP_CHUNKS", 4),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ai-docchat"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validateAll(c)
}

// ValidateClient checks only what the chat client reads.
func (c *Config) ValidateClient() error {
	return validateAll(c.App, c.Client)
}

// ValidateServer checks only what the development backend reads.
func (c *Config) ValidateServer() error {
	return validateAll(c.App, c.Server, c.Ai)
}

func validateAll(parts ...interface{}) error {
	for _, p := range parts {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

// ResolveAPIBaseURL picks the backend address: an explicit URL wins, production
// resolves apiPath against publicOrigin, everything else talks to the local backend.
func ResolveAPIBaseURL(explicit string, production bool, publicOrigin, apiPath string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	if !production {
		return DefaultAPIBaseURL
	}

	origin, err := url.Parse(publicOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		// A relative path cannot be dialed without an origin; Validate reports it.
		return apiPath
	}
	ref, err := url.Parse(apiPath)
	if err != nil {
		return apiPath
	}
	return strings.TrimRight(origin.ResolveReference(ref).String(), "/")
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
