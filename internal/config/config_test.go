package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
db:
  host: localhost
  port: 5432
  user: app
  password: secret
  name: mailtriage
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.IMAP.Host != "imap.gmail.com" || cfg.IMAP.Port != 993 {
		t.Errorf("IMAP defaults = %s:%d", cfg.IMAP.Host, cfg.IMAP.Port)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Errorf("SMTP defaults = %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.Mode != "time" {
		t.Errorf("scheduler defaults = enabled:%v mode:%q", cfg.Scheduler.Enabled, cfg.Scheduler.Mode)
	}
	if cfg.Scheduler.MorningTime != "09:00" || cfg.Scheduler.EveningTime != "16:00" {
		t.Errorf("scheduler times = %s/%s", cfg.Scheduler.MorningTime, cfg.Scheduler.EveningTime)
	}
	if cfg.Server.Port != ":8000" {
		t.Errorf("server port = %q", cfg.Server.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  mode: time
`)

	t.Setenv("IMAP_SERVER", "imap.corp.example.com")
	t.Setenv("SCHEDULER_TYPE", "interval")
	t.Setenv("SCHEDULER_INTERVAL_MINUTES", "15")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.IMAP.Host != "imap.corp.example.com" {
		t.Errorf("IMAP host = %q, env override lost", cfg.IMAP.Host)
	}
	if cfg.Scheduler.Mode != "interval" || cfg.Scheduler.IntervalMinutes != 15 {
		t.Errorf("scheduler = %s/%d, env override lost", cfg.Scheduler.Mode, cfg.Scheduler.IntervalMinutes)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("jwt secret = %q, env override lost", cfg.JWT.Secret)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "unknown scheduler mode",
			content: `
scheduler:
  mode: hourly
`,
		},
		{
			name: "interval out of range",
			content: `
scheduler:
  mode: interval
  interval_minutes: 0
`,
		},
		{
			name: "malformed morning time",
			content: `
scheduler:
  mode: time
  morning_time: "25:00"
`,
		},
		{
			name: "malformed evening time",
			content: `
scheduler:
  mode: time
  evening_time: "4pm"
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
