package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/levee-files/internal/output"
)

// Record sources.
const (
	SourcePostgres = "postgres"
	SourceCSV      = "csv"
)

// Config holds all run settings, populated from an optional YAML overlay and
// environment variables. Environment variables win.
type Config struct {
	Source      string
	DatabaseURL string
	CSVPath     string

	Timezone     string
	Year         int
	CalendarID   string
	CalendarName string

	OutputDir      string
	Names          output.Names
	HTMLPreamble   string
	HTMLMidsection string
	HTMLClosing    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPrefix    string
	MinioSecure    bool

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// BuildTimestamp pins DTSTAMP for reproducible output. Zero means now.
	BuildTimestamp time.Time
}

// Load reads configuration from LEVEES_CONFIG (if set) and the environment,
// applying defaults where unset.
func Load() (*Config, error) {
	ov, err := loadOverlay(os.Getenv("LEVEES_CONFIG"))
	if err != nil {
		return nil, err
	}

	year, err := parseYear(envOrDefault("LEVEE_YEAR", strconv.Itoa(orInt(ov.Year, 2016))))
	if err != nil {
		return nil, err
	}

	minioSecure, err := parseBool("MINIO_SECURE", envOrDefault("MINIO_SECURE", "false"))
	if err != nil {
		return nil, err
	}

	var buildTimestamp time.Time
	if v := os.Getenv("BUILD_TIMESTAMP"); v != "" {
		buildTimestamp, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUILD_TIMESTAMP %q: must be RFC 3339", v)
		}
	}

	cfg := &Config{
		Source:      strings.ToLower(envOrDefault("LEVEE_SOURCE", orString(ov.Source, SourcePostgres))),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CSVPath:     envOrDefault("LEVEE_CSV_PATH", orString(ov.CSVPath, "data/levees.csv")),

		Timezone:     envOrDefault("LEVEE_TIMEZONE", orString(ov.Timezone, "America/Halifax")),
		Year:         year,
		CalendarID:   envOrDefault("LEVEE_CALENDAR_ID", orString(ov.CalendarID, "ruk.ca/levee-"+strconv.Itoa(year))),
		CalendarName: envOrDefault("LEVEE_CALENDAR_NAME", orString(ov.CalendarName, strconv.Itoa(year)+" New Years Levees")),

		OutputDir:      envOrDefault("OUTPUT_DIR", orString(ov.OutputDir, "result")),
		Names:          ov.names(),
		HTMLPreamble:   envOrDefault("HTML_PREAMBLE", ov.HTML.Preamble),
		HTMLMidsection: envOrDefault("HTML_MIDSECTION", ov.HTML.Midsection),
		HTMLClosing:    envOrDefault("HTML_CLOSING", ov.HTML.Closing),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioPrefix:    os.Getenv("MINIO_PREFIX"),
		MinioSecure:    minioSecure,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "levee-artifacts"),

		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		BuildTimestamp:  buildTimestamp,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when LEVEE_SOURCE is postgres")
		}
	case SourceCSV:
		if c.CSVPath == "" {
			return errors.New("LEVEE_CSV_PATH is required when LEVEE_SOURCE is csv")
		}
	default:
		return fmt.Errorf("invalid LEVEE_SOURCE %q: must be postgres or csv", c.Source)
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if c.MinioEnabled() && c.MinioBucket == "" {
		return errors.New("MINIO_ENDPOINT is set but MINIO_BUCKET is not")
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}
	return nil
}

// MinioEnabled reports whether artifacts are also published to a bucket.
func (c *Config) MinioEnabled() bool { return c.MinioEndpoint != "" }

// KafkaEnabled reports whether artifacts are also published to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseYear(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 9999 {
		return 0, fmt.Errorf("invalid LEVEE_YEAR %q", s)
	}
	return n, nil
}

func parseBool(key, s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
