package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"card-shoggoths-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Card Shoggoths server
type Config struct {
	loaded bool

	Addr  string `yaml:"addr" envconfig:"addr"`
	Store struct {
		// Driver is memory, postgres or sqlite
		Driver         string `yaml:"driver" envconfig:"driver"`
		DSN            string `yaml:"dsn" envconfig:"dsn"`
		MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	} `yaml:"store"`
	JWT struct {
		// Secret signs session tokens. A random secret is generated if empty.
		Secret string        `yaml:"secret" envconfig:"secret"`
		TTL    time.Duration `yaml:"ttl" envconfig:"ttl"`
	} `yaml:"jwt"`
	RecaptchaSecret string   `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	CORSOrigins     []string `yaml:"corsOrigins" envconfig:"cors_origins"`
	Log             struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Game struct {
		Ante               int     `yaml:"ante" envconfig:"ante"`
		StartingSanity     int     `yaml:"startingSanity" envconfig:"starting_sanity"`
		MaxDiscards        int     `yaml:"maxDiscards" envconfig:"max_discards"`
		RevealOnFold       bool    `yaml:"revealOnFold" envconfig:"reveal_on_fold"`
		OpponentName       string  `yaml:"opponentName" envconfig:"opponent_name"`
		Courage            float64 `yaml:"courage" envconfig:"courage"`
		DiscardSimulations int     `yaml:"discardSimulations" envconfig:"discard_simulations"`
		BetSize            int     `yaml:"betSize" envconfig:"bet_size"`
		RaiseSize          int     `yaml:"raiseSize" envconfig:"raise_size"`
	} `yaml:"game"`
	ESP struct {
		HandSize          int           `yaml:"handSize" envconfig:"hand_size"`
		Deadline          time.Duration `yaml:"deadline" envconfig:"deadline"`
		Reward            int           `yaml:"reward" envconfig:"reward"`
		TimeoutPenalty    int           `yaml:"timeoutPenalty" envconfig:"timeout_penalty"`
		WrongGuessPenalty int           `yaml:"wrongGuessPenalty" envconfig:"wrong_guess_penalty"`
	} `yaml:"esp"`
	Session struct {
		SweepInterval time.Duration `yaml:"sweepInterval" envconfig:"sweep_interval"`
		IdleEvict     time.Duration `yaml:"idleEvict" envconfig:"idle_evict"`
		TTL           time.Duration `yaml:"ttl" envconfig:"ttl"`
		IdleQuipAfter time.Duration `yaml:"idleQuipAfter" envconfig:"idle_quip_after"`
	} `yaml:"session"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values come from the defaults, then the YAML file (if it exists), then the environment.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("SHOGGOTH_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return err
	}

	if err := envconfig.Process("shoggoth", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	var cfg Config
	cfg.Addr = ":5000"
	cfg.Store.Driver = "memory"
	cfg.Store.MigrationsPath = "sql"
	cfg.JWT.TTL = 30 * 24 * time.Hour
	cfg.CORSOrigins = []string{"*"}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	cfg.Game.Ante = 10
	cfg.Game.StartingSanity = 100
	cfg.Game.MaxDiscards = 3
	cfg.Game.RevealOnFold = true
	cfg.Game.OpponentName = "The Ancient One"
	cfg.Game.Courage = 1.2
	cfg.Game.DiscardSimulations = 100
	cfg.Game.BetSize = 20
	cfg.Game.RaiseSize = 20

	cfg.ESP.HandSize = 5
	cfg.ESP.Deadline = 15 * time.Second
	cfg.ESP.Reward = 15
	cfg.ESP.TimeoutPenalty = 10

	cfg.Session.SweepInterval = time.Second
	cfg.Session.IdleEvict = 30 * time.Minute
	cfg.Session.TTL = 7 * 24 * time.Hour
	cfg.Session.IdleQuipAfter = time.Minute

	return cfg
}
