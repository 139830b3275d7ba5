package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type IMAPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AIConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call deadline for the generative backend.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SchedulerConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Mode            string `yaml:"mode"` // "time" or "interval"
	IntervalMinutes int    `yaml:"interval_minutes"`
	MorningTime     string `yaml:"morning_time"`
	EveningTime     string `yaml:"evening_time"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type Config struct {
	DB        DBConfig        `yaml:"db"`
	Redis     RedisConfig     `yaml:"redis"`
	IMAP      IMAPConfig      `yaml:"imap"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	AI        AIConfig        `yaml:"ai"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	JWT       JWTConfig       `yaml:"jwt"`
	Server    ServerConfig    `yaml:"server"`
}

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Load reads config.yaml, applies defaults and environment overrides,
// and validates scheduler settings.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cfg := defaults()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	overrideFromEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		IMAP: IMAPConfig{Host: "imap.gmail.com", Port: 993},
		SMTP: SMTPConfig{Host: "smtp.gmail.com", Port: 587},
		AI:   AIConfig{Model: "gpt-4", TimeoutSeconds: 30},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			Mode:            "time",
			IntervalMinutes: 5,
			MorningTime:     "09:00",
			EveningTime:     "16:00",
		},
		Server: ServerConfig{Port: ":8000"},
	}
}

func (c *Config) validate() error {
	switch c.Scheduler.Mode {
	case "time", "interval":
	default:
		return fmt.Errorf("scheduler mode must be \"time\" or \"interval\", got %q", c.Scheduler.Mode)
	}
	if c.Scheduler.IntervalMinutes < 1 || c.Scheduler.IntervalMinutes > 1440 {
		return fmt.Errorf("scheduler interval_minutes must be in [1,1440], got %d", c.Scheduler.IntervalMinutes)
	}
	for _, t := range []string{c.Scheduler.MorningTime, c.Scheduler.EveningTime} {
		if !clockPattern.MatchString(t) {
			return fmt.Errorf("scheduler time %q must be in HH:MM format", t)
		}
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	// DB
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	// Redis
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	// IMAP
	if host := os.Getenv("IMAP_SERVER"); host != "" {
		cfg.IMAP.Host = host
	}
	if port := os.Getenv("IMAP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.IMAP.Port = p
		}
	}
	if user := os.Getenv("EMAIL_USERNAME"); user != "" {
		cfg.IMAP.Username = user
	}
	if password := os.Getenv("EMAIL_PASSWORD"); password != "" {
		cfg.IMAP.Password = password
	}

	// SMTP
	if host := os.Getenv("SMTP_SERVER"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.SMTP.Port = p
		}
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		cfg.SMTP.Username = user
	}
	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		cfg.SMTP.Password = password
	}
	if from := os.Getenv("SMTP_FROM"); from != "" {
		cfg.SMTP.From = from
	}

	// Generative backend
	if endpoint := os.Getenv("AI_ENDPOINT"); endpoint != "" {
		cfg.AI.Endpoint = endpoint
	}
	if key := os.Getenv("AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if model := os.Getenv("AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	// Scheduler
	if enabled := os.Getenv("SCHEDULER_ENABLED"); enabled != "" {
		cfg.Scheduler.Enabled = enabled == "true" || enabled == "1"
	}
	if mode := os.Getenv("SCHEDULER_TYPE"); mode != "" {
		cfg.Scheduler.Mode = mode
	}
	if minutes := os.Getenv("SCHEDULER_INTERVAL_MINUTES"); minutes != "" {
		if m, err := strconv.Atoi(minutes); err == nil {
			cfg.Scheduler.IntervalMinutes = m
		}
	}
	if morning := os.Getenv("SCHEDULER_MORNING_TIME"); morning != "" {
		cfg.Scheduler.MorningTime = morning
	}
	if evening := os.Getenv("SCHEDULER_EVENING_TIME"); evening != "" {
		cfg.Scheduler.EveningTime = evening
	}

	// JWT
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	// Server
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
}
