// Package config reads process settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/youruser/badgeapp/internal/layout"
)

type Config struct {
	Port       string
	LayoutPath string // optional YAML layout
	FrontPath  string // template preloaded at startup
	BackPath   string
	DPI        int
	FontPath   string // optional regular TTF
	BoldPath   string // optional bold TTF
	LogLevel   slog.Level
	LogFormat  string // "text" or "json"
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		Port:       getenv("PORT", "8080"),
		LayoutPath: os.Getenv("BADGE_LAYOUT"),
		FrontPath:  getenv("BADGE_FRONT", "Front.png"),
		BackPath:   getenv("BADGE_BACK", "Back.png"),
		FontPath:   os.Getenv("BADGE_FONT_REGULAR"),
		BoldPath:   os.Getenv("BADGE_FONT_BOLD"),
		LogFormat:  strings.ToLower(getenv("LOG_FORMAT", "text")),
		DPI:        300,
	}
	if v := os.Getenv("BADGE_DPI"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil || dpi <= 0 {
			return Config{}, fmt.Errorf("BADGE_DPI: invalid value %q", v)
		}
		c.DPI = dpi
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	if (c.FontPath == "") != (c.BoldPath == "") {
		return Config{}, fmt.Errorf("BADGE_FONT_REGULAR and BADGE_FONT_BOLD must be set together")
	}
	return c, nil
}

// Layout returns the configured layout file, or the default layout.
func (c Config) Layout() (layout.Config, error) {
	if c.LayoutPath == "" {
		return layout.Default(), nil
	}
	return layout.Load(c.LayoutPath)
}

// Logger builds the process logger.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
