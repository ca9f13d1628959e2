// Package config loads the service configuration: built-in defaults, an
// optional TOML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		Server    Server    `toml:"server"`
		Database  Database  `toml:"database"`
		Logging   Logging   `toml:"logging"`
		Auth      Auth      `toml:"auth"`
		Mirror    Mirror    `toml:"mirror"`
		Directory Directory `toml:"directory"`
		Sheets    Sheets    `toml:"sheets"`
		Report    Report    `toml:"report"`
		Scheduler Scheduler `toml:"scheduler"`
	}

	Server struct {
		Port         string   `toml:"port" env:"FRTU_SERVER_PORT"`
		ReadTimeout  Duration `toml:"read_timeout" env:"FRTU_SERVER_READ_TIMEOUT"`
		WriteTimeout Duration `toml:"write_timeout" env:"FRTU_SERVER_WRITE_TIMEOUT"`
		IdleTimeout  Duration `toml:"idle_timeout" env:"FRTU_SERVER_IDLE_TIMEOUT"`
		Timezone     string   `toml:"timezone" env:"FRTU_TIMEZONE"`
	}

	Database struct {
		Driver string `toml:"driver" env:"FRTU_DB_DRIVER"` // sqlite, mysql, postgres
		DSN    string `toml:"dsn" env:"FRTU_DB_DSN"`
	}

	Logging struct {
		Level    string `toml:"level" env:"FRTU_LOG_LEVEL"`
		Dir      string `toml:"dir" env:"FRTU_LOG_DIR"`
		MaxSize  int64  `toml:"max_size" env:"FRTU_LOG_MAX_SIZE"`
		MaxAge   int    `toml:"max_age" env:"FRTU_LOG_MAX_AGE"`
		UseColor bool   `toml:"use_color" env:"FRTU_LOG_COLOR"`
	}

	Auth struct {
		JWTSecret    string   `toml:"jwt_secret" env:"JWT_SECRET"`
		TokenTTL     Duration `toml:"token_ttl" env:"FRTU_TOKEN_TTL"`
		PasscodeHash string   `toml:"passcode_hash" env:"FRTU_PASSCODE_HASH"`
	}

	Mirror struct {
		Endpoint  string   `toml:"endpoint" env:"FRTU_MIRROR_ENDPOINT"`
		Timeout   Duration `toml:"timeout" env:"FRTU_MIRROR_TIMEOUT"`
		QueueSize int      `toml:"queue_size" env:"FRTU_MIRROR_QUEUE_SIZE"`
	}

	Directory struct {
		Endpoint string   `toml:"endpoint" env:"FRTU_DIRECTORY_ENDPOINT"`
		Timeout  Duration `toml:"timeout" env:"FRTU_DIRECTORY_TIMEOUT"`
	}

	Sheets struct {
		ServiceAccountEmail string   `toml:"service_account_email" env:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
		PrivateKey          string   `toml:"private_key" env:"GOOGLE_PRIVATE_KEY"`
		SpreadsheetID       string   `toml:"spreadsheet_id" env:"GOOGLE_SHEET_ID"`
		LogSheet            string   `toml:"log_sheet" env:"FRTU_SHEET_LOG"`
		DirectorySheet      string   `toml:"directory_sheet" env:"FRTU_SHEET_DIRECTORY"`
		DirectoryColumn     string   `toml:"directory_column" env:"FRTU_SHEET_DIRECTORY_COLUMN"`
		DirectoryMaxRows    int      `toml:"directory_max_rows" env:"FRTU_SHEET_DIRECTORY_MAX_ROWS"`
		HeaderLabels        []string `toml:"header_labels" env:"FRTU_SHEET_HEADER_LABELS" envSeparator:","`
		Timeout             Duration `toml:"timeout" env:"FRTU_SHEET_TIMEOUT"`
	}

	Report struct {
		PDFFontPath    string   `toml:"pdf_font_path" env:"FRTU_PDF_FONT_PATH"`
		DownloadSecret string   `toml:"download_secret" env:"DOWNLOAD_URL_SECRET"`
		DownloadTTL    Duration `toml:"download_ttl" env:"FRTU_DOWNLOAD_TTL"`
	}

	Scheduler struct {
		DirectoryRefresh Duration `toml:"directory_refresh" env:"FRTU_DIRECTORY_REFRESH"`
	}
)

// Duration wraps time.Duration so TOML and env values can be written as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for both decoders.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration usable without any file or environment.
func Default() Config {
	return Config{
		Server: Server{
			Port:         "8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
			Timezone:     "Asia/Bangkok",
		},
		Database: Database{
			Driver: "sqlite",
			DSN:    "./frtu.db",
		},
		Logging: Logging{
			Level:    "info",
			Dir:      "./logs",
			MaxSize:  10 * 1024 * 1024,
			MaxAge:   7,
			UseColor: true,
		},
		Auth: Auth{
			TokenTTL: Duration{12 * time.Hour},
		},
		Mirror: Mirror{
			Endpoint:  "/api/log-to-sheet",
			Timeout:   Duration{10 * time.Second},
			QueueSize: 64,
		},
		Directory: Directory{
			Endpoint: "/api/get-employees",
			Timeout:  Duration{10 * time.Second},
		},
		Sheets: Sheets{
			SpreadsheetID:    "1rI_yoyNOLKhzmxt2jCWT-bKkcn14TPylfATAifKlIYI",
			LogSheet:         "database",
			DirectorySheet:   "รายชื่อพนักงาน",
			DirectoryColumn:  "A",
			DirectoryMaxRows: 500,
			HeaderLabels:     []string{"ชื่อ-สกุล", "ชื่อ", "Name", "Full Name"},
			Timeout:          Duration{15 * time.Second},
		},
		Report: Report{
			DownloadTTL: Duration{5 * time.Minute},
		},
		Scheduler: Scheduler{
			DirectoryRefresh: Duration{30 * time.Minute},
		},
	}
}

// Load builds the configuration. An empty path skips the file; a path that
// does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config error: %w", err)
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config error: decode %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}

	cfg.Mirror.Endpoint = cfg.selfURL(cfg.Mirror.Endpoint)
	cfg.Directory.Endpoint = cfg.selfURL(cfg.Directory.Endpoint)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// selfURL turns a path such as /api/log-to-sheet into a URL on this server's
// own port. Absolute URLs and the empty string pass through.
func (c Config) selfURL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		return endpoint
	}
	return "http://localhost:" + c.Server.Port + endpoint
}

// Validate rejects values the service cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Mirror.QueueSize <= 0 {
		return errors.New("mirror queue_size must be positive")
	}
	if c.Sheets.DirectoryMaxRows <= 0 {
		return errors.New("sheets directory_max_rows must be positive")
	}
	for name, d := range map[string]Duration{
		"mirror timeout":    c.Mirror.Timeout,
		"directory timeout": c.Directory.Timeout,
		"sheets timeout":    c.Sheets.Timeout,
		"token_ttl":         c.Auth.TokenTTL,
		"directory_refresh": c.Scheduler.DirectoryRefresh,
		"download_ttl":      c.Report.DownloadTTL,
	} {
		if d.Duration <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// Location resolves the configured report timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.FixedZone(c.Server.Timezone, 7*60*60)
	}
	return loc
}
