package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates configuration for the whole service.
type Config struct {
	Server   ServerConfig
	Realtime RealtimeConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	realtimeCfg, err := loadRealtimeConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Realtime: realtimeCfg}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// RealtimeConfig describes the realtime speech provider.
type RealtimeConfig struct {
	APIKey             string
	BaseURL            string
	SessionURL         string
	Model              string
	TranscriptionModel string
	Voice              string
	PreferWebSocket    bool
	HandshakeTimeout   int
}

// Enabled reports whether the provider credentials are present. Without
// them the API still serves modules and notes; realtime sessions are off.
func (c RealtimeConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadRealtimeConfig() (RealtimeConfig, error) {
	preferWS, err := parseBoolEnv("REALTIME_TRANSPORT_WS", false)
	if err != nil {
		return RealtimeConfig{}, err
	}

	handshakeTimeout := 30
	if override, err := parseOptionalIntEnv("REALTIME_HANDSHAKE_TIMEOUT"); err != nil {
		return RealtimeConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return RealtimeConfig{}, fmt.Errorf("REALTIME_HANDSHAKE_TIMEOUT must be positive, got %d", *override)
		}
		handshakeTimeout = *override
	}

	return RealtimeConfig{
		APIKey:             strings.TrimSpace(os.Getenv("REALTIME_API_KEY")),
		BaseURL:            getEnvOrDefault("REALTIME_BASE_URL", "https://api.openai.com/v1/realtime"),
		SessionURL:         getEnvOrDefault("REALTIME_SESSION_URL", "https://api.openai.com/v1/realtime/sessions"),
		Model:              getEnvOrDefault("REALTIME_MODEL", "gpt-4o-realtime-preview-2024-12-17"),
		TranscriptionModel: getEnvOrDefault("REALTIME_TRANSCRIPTION_MODEL", "whisper-1"),
		Voice:              getEnvOrDefault("REALTIME_VOICE", "verse"),
		PreferWebSocket:    preferWS,
		HandshakeTimeout:   handshakeTimeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
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
