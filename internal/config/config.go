package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Sink drivers.
const (
	SinkMySQL  = "mysql"
	SinkSQLite = "sqlite"
	SinkSheets = "sheets"
)

// Config holds the configuration read from an optional TOML file and the
// environment. Environment variables win over the file.
type Config struct {
	Toggl struct {
		APIToken    string        `toml:"api_token"`
		Email       string        `toml:"email"`
		Password    string        `toml:"password"`
		WorkspaceID int64         `toml:"workspace_id"`
		BaseURL     string        `toml:"base_url"`   // default: https://api.track.toggl.com
		UserAgent   string        `toml:"user_agent"` // sent as the user_agent query parameter
		PageDelay   time.Duration `toml:"page_delay"` // wait between report pages, default 1s
	} `toml:"toggl"`
	MySQL struct {
		DSN string `toml:"dsn"` // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true
	} `toml:"mysql"`
	SQLite struct {
		Path string `toml:"path"`
	} `toml:"sqlite"`
	Sheets struct {
		CredentialsFile string `toml:"credentials_file"` // service account key
		SpreadsheetID   string `toml:"spreadsheet_id"`
		Sheet           string `toml:"sheet"`
	} `toml:"sheets"`
	Sync struct {
		Sink     string `toml:"sink"`     // mysql (default), sqlite or sheets
		Timezone string `toml:"timezone"` // e.g., UTC (default), Europe/Berlin
	} `toml:"sync"`
	HTTP struct {
		Addr string `toml:"addr"`
	} `toml:"http"`
	Clone struct {
		APIToken string `toml:"api_token"` // token of the account entries are cloned into
	} `toml:"clone"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	cfg.Toggl.BaseURL = "https://api.track.toggl.com"
	cfg.Toggl.PageDelay = time.Second
	cfg.SQLite.Path = "toggl.db"
	cfg.Sheets.Sheet = "Sheet1"
	cfg.Sync.Sink = SinkMySQL
	cfg.Sync.Timezone = "UTC"
	cfg.HTTP.Addr = ":8080"
	return cfg
}

// Load reads path (when non-empty and present), applies environment
// variables and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the credentials and the sink driver name.
func (c Config) Validate() error {
	if c.Toggl.APIToken == "" && (c.Toggl.Email == "" || c.Toggl.Password == "") {
		return errors.New("TOGGL_API_TOKEN (or TOGGL_EMAIL and TOGGL_PASSWORD) is required")
	}
	switch c.Sync.Sink {
	case SinkMySQL, SinkSQLite, SinkSheets:
	default:
		return fmt.Errorf("SINK_DRIVER must be one of mysql, sqlite, sheets; got %q", c.Sync.Sink)
	}
	if c.Toggl.PageDelay < 0 {
		return errors.New("TOGGL_PAGE_DELAY must not be negative")
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("SYNC_TZ: %w", err)
	}
	return nil
}

// ValidateSink checks that the selected sink has what it needs.
func (c Config) ValidateSink() error {
	switch c.Sync.Sink {
	case SinkMySQL:
		if c.MySQL.DSN == "" {
			return errors.New("MYSQL_DSN is required for the mysql sink")
		}
	case SinkSQLite:
		if c.SQLite.Path == "" {
			return errors.New("SQLITE_PATH is required for the sqlite sink")
		}
	case SinkSheets:
		if c.Sheets.CredentialsFile == "" || c.Sheets.SpreadsheetID == "" {
			return errors.New("SHEETS_CREDENTIALS_FILE and SHEETS_SPREADSHEET_ID are required for the sheets sink")
		}
	}
	return nil
}

// Location returns the sync time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Sync.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Toggl.APIToken, "TOGGL_API_TOKEN")
	setString(&cfg.Toggl.Email, "TOGGL_EMAIL")
	setString(&cfg.Toggl.Password, "TOGGL_PASSWORD")
	setString(&cfg.Toggl.BaseURL, "TOGGL_BASE_URL")
	setString(&cfg.Toggl.UserAgent, "TOGGL_USER_AGENT")
	if ws := os.Getenv("TOGGL_WORKSPACE_ID"); ws != "" {
		v, err := strconv.ParseInt(ws, 10, 64)
		if err != nil {
			return errors.New("TOGGL_WORKSPACE_ID must be an integer")
		}
		cfg.Toggl.WorkspaceID = v
	}
	if d := os.Getenv("TOGGL_PAGE_DELAY"); d != "" {
		v, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("TOGGL_PAGE_DELAY: %w", err)
		}
		cfg.Toggl.PageDelay = v
	}
	setString(&cfg.MySQL.DSN, "MYSQL_DSN")
	setString(&cfg.SQLite.Path, "SQLITE_PATH")
	setString(&cfg.Sheets.CredentialsFile, "SHEETS_CREDENTIALS_FILE")
	setString(&cfg.Sheets.SpreadsheetID, "SHEETS_SPREADSHEET_ID")
	setString(&cfg.Sheets.Sheet, "SHEETS_SHEET")
	setString(&cfg.Sync.Sink, "SINK_DRIVER")
	setString(&cfg.Sync.Timezone, "SYNC_TZ")
	setString(&cfg.HTTP.Addr, "HTTP_ADDR")
	setString(&cfg.Clone.APIToken, "TOGGL_CLONE_API_TOKEN")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
