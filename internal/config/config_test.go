package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TOGGL_API_TOKEN", "TOGGL_EMAIL", "TOGGL_PASSWORD", "TOGGL_BASE_URL", "TOGGL_USER_AGENT",
		"TOGGL_WORKSPACE_ID", "TOGGL_PAGE_DELAY", "MYSQL_DSN", "SQLITE_PATH", "SHEETS_CREDENTIALS_FILE",
		"SHEETS_SPREADSHEET_ID", "SHEETS_SHEET", "SINK_DRIVER", "SYNC_TZ", "HTTP_ADDR", "TOGGL_CLONE_API_TOKEN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOGGL_API_TOKEN", "tok")
	t.Setenv("TOGGL_WORKSPACE_ID", "42")
	t.Setenv("TOGGL_PAGE_DELAY", "250ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Toggl.APIToken != "tok" || cfg.Toggl.WorkspaceID != 42 || cfg.Toggl.PageDelay != 250*time.Millisecond {
		t.Fatalf("cfg.Toggl = %+v", cfg.Toggl)
	}
	if cfg.Toggl.BaseURL != "https://api.track.toggl.com" || cfg.Sync.Sink != SinkMySQL || cfg.HTTP.Addr != ":8080" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "toggl.toml")
	file := `
[toggl]
email = "me@example.com"
password = "pw"
workspace_id = 7
page_delay = "2s"

[sync]
sink = "sqlite"
timezone = "Europe/Berlin"

[sqlite]
path = "/var/lib/toggl.db"
`
	if err := os.WriteFile(path, []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOGGL_WORKSPACE_ID", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Toggl.Email != "me@example.com" || cfg.Toggl.PageDelay != 2*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.Toggl)
	}
	if cfg.Toggl.WorkspaceID != 8 {
		t.Fatalf("WorkspaceID = %d, env must win", cfg.Toggl.WorkspaceID)
	}
	if cfg.Sync.Sink != SinkSQLite || cfg.SQLite.Path != "/var/lib/toggl.db" {
		t.Fatalf("sync = %+v sqlite = %+v", cfg.Sync, cfg.SQLite)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Fatalf("Location = %s", cfg.Location())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOGGL_API_TOKEN", "tok")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no credentials", nil, "TOGGL_API_TOKEN"},
		{"email without password", map[string]string{"TOGGL_EMAIL": "me@example.com"}, "TOGGL_API_TOKEN"},
		{"bad workspace", map[string]string{"TOGGL_API_TOKEN": "t", "TOGGL_WORKSPACE_ID": "abc"}, "TOGGL_WORKSPACE_ID"},
		{"bad delay", map[string]string{"TOGGL_API_TOKEN": "t", "TOGGL_PAGE_DELAY": "soon"}, "TOGGL_PAGE_DELAY"},
		{"bad sink", map[string]string{"TOGGL_API_TOKEN": "t", "SINK_DRIVER": "redis"}, "SINK_DRIVER"},
		{"bad timezone", map[string]string{"TOGGL_API_TOKEN": "t", "SYNC_TZ": "Mars/Olympus"}, "SYNC_TZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestValidateSink(t *testing.T) {
	cfg := Default()
	if err := cfg.ValidateSink(); err == nil {
		t.Fatal("mysql sink without DSN must fail")
	}
	cfg.MySQL.DSN = "u:p@tcp(db:3306)/toggl"
	if err := cfg.ValidateSink(); err != nil {
		t.Fatalf("ValidateSink: %v", err)
	}
	cfg.Sync.Sink = SinkSheets
	if err := cfg.ValidateSink(); err == nil {
		t.Fatal("sheets sink without spreadsheet must fail")
	}
}
