package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultFeedLimit = 20

// Config holds application-level configuration.
type Config struct {
	BaseURL   string // Backend project URL, e.g. "https://abc.supabase.co"
	AnonKey   string // Public anon API key sent on every request
	TokenPath string // Path to the file holding the session access token
	FeedLimit int    // Page size for feed fetches
}

// Load reads configuration from the environment, after overlaying a local
// .env file when one exists.
//
//	PULSEFEED_URL       — backend project URL (required, https only)
//	PULSEFEED_ANON_KEY  — public anon key (required)
//	PULSEFEED_TOKEN     — path to session token file
//	                      (default: ~/.config/pulsefeed/token)
//	PULSEFEED_LIMIT     — feed page size (default: 20)
func Load() (Config, error) {
	_ = godotenv.Load()

	raw := strings.TrimSpace(os.Getenv("PULSEFEED_URL"))
	if raw == "" {
		return Config{}, fmt.Errorf("PULSEFEED_URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid PULSEFEED_URL: must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return Config{}, fmt.Errorf("invalid PULSEFEED_URL: only https is allowed")
	}
	baseURL := strings.TrimRight(parsed.String(), "/")

	anonKey := strings.TrimSpace(os.Getenv("PULSEFEED_ANON_KEY"))
	if anonKey == "" {
		return Config{}, fmt.Errorf("PULSEFEED_ANON_KEY is required")
	}

	tokenPath := os.Getenv("PULSEFEED_TOKEN")
	if tokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		tokenPath = filepath.Join(home, ".config", "pulsefeed", "token")
	}

	limit := defaultFeedLimit
	if v := strings.TrimSpace(os.Getenv("PULSEFEED_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return Config{}, fmt.Errorf("invalid PULSEFEED_LIMIT: must be 1-100")
		}
		limit = n
	}

	return Config{
		BaseURL:   baseURL,
		AnonKey:   anonKey,
		TokenPath: tokenPath,
		FeedLimit: limit,
	}, nil
}
