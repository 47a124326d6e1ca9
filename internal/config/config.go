package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Listen  string  `yaml:"listen"`
	Admin   Admin   `yaml:"admin"`
	Logger  Logger  `yaml:"logger"`
	Storage Storage `yaml:"storage"`
	Auth    Auth    `yaml:"auth"`
	CORS    CORS    `yaml:"cors"`

	Telegram Telegram    `yaml:"telegram"`
	Scoring  []StageRule `yaml:"scoring"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Storage struct {
	Database   string `yaml:"database"`
	UserAvatar string `yaml:"user_avatar"`
}

type Auth struct {
	JWT   JWT   `yaml:"jwt"`
	Local Local `yaml:"local"`
}

// Local defines configuration for username/password authentication.
type Local struct {
	Enabled bool `yaml:"enabled"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type Telegram struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	APIURL   string `yaml:"api_url"`
}

// StageRule maps one olympiad stage to its score thresholds and rewards.
// The rule set is injected configuration rather than a table baked into
// the recorder, so deployments can tune points without a rebuild.
type StageRule struct {
	Stage           string `yaml:"stage"`
	WinnerThreshold int    `yaml:"winner_threshold"`
	PrizeThreshold  int    `yaml:"prize_threshold"`
	WinnerPoints    int    `yaml:"winner_points"`
	PrizePoints     int    `yaml:"prize_points"`
	WinnerMedal     string `yaml:"winner_medal"`
	PrizeMedal      string `yaml:"prize_medal"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Auth.JWT.Secret == "" {
		return nil, fmt.Errorf("auth.jwt.secret must be set")
	}
	if cfg.Auth.JWT.ExpireHours <= 0 {
		cfg.Auth.JWT.ExpireHours = 72
	}
	if cfg.Telegram.APIURL == "" {
		cfg.Telegram.APIURL = "https://api.telegram.org"
	}

	return &cfg, nil
}
