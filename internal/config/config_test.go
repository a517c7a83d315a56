package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIBaseURL(t *testing.T) {
	tests := []struct {
		name         string
		explicit     string
		production   bool
		publicOrigin string
		apiPath      string
		want         string
	}{
		{name: "development default", want: "http://localhost:8000"},
		{name: "development ignores origin", publicOrigin: "https://docs.example.com", apiPath: "/api", want: "http://localhost:8000"},
		{name: "explicit wins", explicit: "http://10.0.0.5:9000/", production: true, publicOrigin: "https://docs.example.com", want: "http://10.0.0.5:9000"},
		{name: "production relative path", production: true, publicOrigin: "https://docs.example.com", apiPath: "/api", want: "https://docs.example.com/api"},
		{name: "production origin with path", production: true, publicOrigin: "https://example.com/app/", apiPath: "api", want: "https://example.com/app/api"},
		{name: "production without origin", production: true, apiPath: "/api", want: "/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAPIBaseURL(tt.explicit, tt.production, tt.publicOrigin, tt.apiPath)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"GO_ENV", "PRODUCTION", "API_BASE_URL", "API_PREFIX", "ASK_TIMEOUT", "APP_PORT"} {
		t.Setenv(key, "")
	}
	t.Setenv("GO_ENV", "development")

	cfg := Load()

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "http://localhost:8000", cfg.Client.APIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.Client.AskTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.UploadTimeout)
	assert.Equal(t, "", cfg.Server.APIPrefix)
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("GO_ENV", "")
	t.Setenv("PRODUCTION", "true")
	t.Setenv("PUBLIC_ORIGIN", "https://docs.example.com")
	t.Setenv("API_PATH", "/api")
	t.Setenv("ASK_TIMEOUT", "90s")
	t.Setenv("APP_PORT", "8000")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://docs.example.com/api", cfg.Client.APIBaseURL)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, 90*time.Second, cfg.Client.AskTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development", LogFilePath: "logs/test.log"},
			Client: ClientConfig{APIBaseURL: "http://localhost:8000", UploadTimeout: time.Second, AskTimeout: time.Second},
			Server: ServerConfig{Port: "8000", BodyLimitMB: 20, DocumentStore: "memory"},
			Ai:     AIConfig{LLMProvider: "mock", TopChunks: 4},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "relative base url", mutate: func(c *Config) { c.Client.APIBaseURL = "/api" }},
		{name: "zero ask timeout", mutate: func(c *Config) { c.Client.AskTimeout = 0 }},
		{name: "port not numeric", mutate: func(c *Config) { c.Server.Port = "eighty" }},
		{name: "unknown store", mutate: func(c *Config) { c.Server.DocumentStore = "postgres" }},
		{name: "unknown provider", mutate: func(c *Config) { c.Ai.LLMProvider = "gpt" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateScopes(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "production", LogFilePath: "logs/test.log"},
		Client: ClientConfig{APIBaseURL: "/api", UploadTimeout: time.Second, AskTimeout: time.Second},
		Server: ServerConfig{Port: "8000", BodyLimitMB: 20, DocumentStore: "redis"},
		Ai:     AIConfig{LLMProvider: "ollama", TopChunks: 4},
	}

	assert.NoError(t, cfg.ValidateServer(), "backend does not need a client origin")
	assert.Error(t, cfg.ValidateClient())
}
