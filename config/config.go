package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"playtest_server/models"
)

const (
	defaultAirtableAPIBase = "https://api.airtable.com/v0"
	defaultPort            = "8080"
	defaultPageSize        = 100
	defaultReportLimit     = 20
)

// Config holds everything the commands need to reach the backing store
type Config struct {
	Backend         string
	AirtableAPIKey  string
	AirtableBaseID  string
	AirtableAPIBase string
	AWSRegion       string
	S3BucketName    string
	Port            string
	LogLevel        string
	PageSize        int
	ReportLimit     int
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading environment variables")
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an arbitrary key lookup, applying defaults
func FromLookup(getenv func(string) string) *Config {
	cfg := &Config{
		Backend:         strings.ToLower(getenv("PLAYTEST_BACKEND")),
		AirtableAPIKey:  getenv("AIRTABLE_API_KEY"),
		AirtableBaseID:  getenv("AIRTABLE_BASE_ID"),
		AirtableAPIBase: getenv("AIRTABLE_API_BASE"),
		AWSRegion:       getenv("AWS_REGION"),
		S3BucketName:    getenv("S3_BUCKET_NAME"),
		Port:            getenv("PORT"),
		LogLevel:        getenv("LOG_LEVEL"),
		PageSize:        cast.ToInt(getenv("PAGE_SIZE")),
		ReportLimit:     cast.ToInt(getenv("REPORT_LIMIT")),
	}

	if cfg.Backend == "" {
		cfg.Backend = models.BackendAirtable
	}
	if cfg.AirtableAPIBase == "" {
		cfg.AirtableAPIBase = defaultAirtableAPIBase
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	// Airtable caps pageSize at 100
	if cfg.PageSize <= 0 || cfg.PageSize > defaultPageSize {
		cfg.PageSize = defaultPageSize
	}
	if cfg.ReportLimit <= 0 {
		cfg.ReportLimit = defaultReportLimit
	}
	return cfg
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.Backend {
	case models.BackendAirtable:
		if c.AirtableAPIKey == "" || c.AirtableBaseID == "" {
			return errors.New("AIRTABLE_API_KEY and AIRTABLE_BASE_ID are required for the airtable backend")
		}
	case models.BackendDynamo:
		if c.AWSRegion == "" {
			return errors.New("AWS_REGION is required for the dynamodb backend")
		}
	default:
		return fmt.Errorf("unknown PLAYTEST_BACKEND %q (want %s or %s)", c.Backend, models.BackendAirtable, models.BackendDynamo)
	}
	return nil
}
