package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/eringen/pagegen"
)

// newLogger builds the text logger every command writes to stderr.
// PAGEGEN_LOG_LEVEL accepts debug, info, warn or error.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(pagegen.EnvOr("PAGEGEN_LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// configFromEnv reads the site settings shared by all commands.
func configFromEnv() pagegen.SiteConfig {
	return pagegen.SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Phone:         os.Getenv("SITE_PHONE"),
		Email:         os.Getenv("SITE_EMAIL"),
		Address:       os.Getenv("SITE_ADDRESS"),
		ClinicLat:     envFloat("CLINIC_LAT"),
		ClinicLon:     envFloat("CLINIC_LON"),
		TemplatesDir:  os.Getenv("TEMPLATES_DIR"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		OGImagePath:   os.Getenv("OG_IMAGE_PATH"),
		Addr:          os.Getenv("ADDR"),
		BatchSize:     envInt("BATCH_SIZE"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}
}

func envFloat(key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return 0
	}
	return v
}

func envInt(key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0
	}
	return v
}

// sourceFlags are the flags every command that reads templates accepts.
// They override the environment.
type sourceFlags struct {
	templates string
	db        string
	catalog   string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.templates, "templates", "", "template directory (default $TEMPLATES_DIR or templates)")
	fs.StringVar(&s.db, "db", "", "SQL template store DSN (default $DATABASE_DSN)")
	fs.StringVar(&s.catalog, "catalog", "", "YAML catalog file (default $CATALOG_PATH or built-in)")
}

func (s *sourceFlags) apply(cfg *pagegen.SiteConfig) {
	if s.templates != "" {
		cfg.TemplatesDir = s.templates
		cfg.DatabaseDSN = ""
	}
	if s.db != "" {
		cfg.DatabaseDSN = s.db
	}
	if s.catalog != "" {
		cfg.CatalogPath = s.catalog
	}
}
