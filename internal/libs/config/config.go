// Package config provides application configuration management from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog sources
const (
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	APIPort  string
	APIHost  string
	LogLevel string

	// Storefront catalog
	CatalogSource string
	CatalogPath   string
	DatabaseURL   string

	// Admin backend
	AdminAPIURL    string
	AdminToken     string
	SocketURL      string
	RequestTimeout time.Duration

	// List screens
	SearchDebounce time.Duration
	ListDebounce   time.Duration
	PageLimit      int

	// Checkout
	WhatsAppNumber string
	HelplineNumber string

	CORSOrigins []string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CatalogSource:  strings.ToLower(getEnv("CATALOG_SOURCE", CatalogFile)),
		CatalogPath:    getEnv("CATALOG_PATH", "data/menu.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AdminAPIURL:    strings.TrimRight(getEnv("ADMIN_API_URL", "https://tiptopapp-backend.onrender.com/api/v1"), "/"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "7696482938"),
		HelplineNumber: getEnv("HELPLINE_NUMBER", "+91 9650780199"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = getDuration("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ListDebounce, err = getDuration("LIST_DEBOUNCE", 400*time.Millisecond); err != nil {
		return nil, err
	}

	cfg.PageLimit, err = strconv.Atoi(getEnv("PAGE_LIMIT", "10"))
	if err != nil || cfg.PageLimit <= 0 {
		return nil, fmt.Errorf("PAGE_LIMIT must be a positive integer")
	}

	switch cfg.CatalogSource {
	case CatalogFile:
	case CatalogPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres catalog")
		}
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	cfg.SocketURL = getEnv("SOCKET_URL", socketURLFromAPI(cfg.AdminAPIURL))

	return cfg, nil
}

// socketURLFromAPI derives the websocket endpoint from the REST base URL
func socketURLFromAPI(apiURL string) string {
	u := strings.TrimSuffix(apiURL, "/api/v1")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
