package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the runtime configuration, immutable per reconcile run. A fresh
// snapshot is taken at the start of each run via Store.Config.
type Config struct {
	Slack  SlackConfig  `mapstructure:"slack" json:"slack"`
	Status StatusConfig `mapstructure:"status" json:"status"`
	Player PlayerConfig `mapstructure:"player" json:"player"`
	Cache  CacheConfig  `mapstructure:"cache" json:"cache"`
	DB     DBConfig     `mapstructure:"db" json:"db"`
	Log    LogConfig    `mapstructure:"log" json:"log"`
	HTTP   HTTPConfig   `mapstructure:"http" json:"http"`
	Censor CensorConfig `mapstructure:"censor" json:"censor"`

	IntervalSeconds int `mapstructure:"interval_seconds" json:"interval_seconds"`
}

type SlackConfig struct {
	// Token can also come from the TUNESTATUS_SLACK_TOKEN environment
	// variable, which takes precedence over the file.
	Token string `mapstructure:"token" json:"token"`
}

type StatusConfig struct {
	Emoji                         string `mapstructure:"emoji" json:"emoji"`
	EmojiUnicode                  string `mapstructure:"emoji_unicode" json:"emoji_unicode"`
	TTLSeconds                    int64  `mapstructure:"ttl_seconds" json:"ttl_seconds"`
	AlwaysOverride                bool   `mapstructure:"always_override" json:"always_override"`
	RequireTwoEmptyReads          bool   `mapstructure:"require_two_empty_reads" json:"require_two_empty_reads"`
	EmptyReadConfirmWindowSeconds int64  `mapstructure:"empty_read_window_seconds" json:"empty_read_window_seconds"`
}

type PlayerConfig struct {
	Backend                 string `mapstructure:"backend" json:"backend"` // mpd | osascript
	MPDAddress              string `mapstructure:"mpd_address" json:"mpd_address"`
	OsascriptTimeoutSeconds int    `mapstructure:"osascript_timeout_seconds" json:"osascript_timeout_seconds"`
}

type CacheConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

type DBConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

type LogConfig struct {
	File     string `mapstructure:"file" json:"file"`
	Level    string `mapstructure:"level" json:"level"`
	MaxLines int    `mapstructure:"max_lines" json:"max_lines"`
}

type HTTPConfig struct {
	Port     string `mapstructure:"port" json:"port"`
	Username string `mapstructure:"username" json:"username"`
	// PasswordHash is a bcrypt hash; the cleartext password is never stored.
	PasswordHash string `mapstructure:"password_hash" json:"password_hash"`
}

type CensorConfig struct {
	Words []string `mapstructure:"words" json:"words"`
}

// Backends accepted by PlayerConfig.Backend.
const (
	BackendMPD       = "mpd"
	BackendOsascript = "osascript"
)

const envPrefix = "TUNESTATUS"

func setDefaults(v *viper.Viper) {
	// Registering the key makes the env override visible to Unmarshal even
	// when the file omits it.
	v.SetDefault("slack.token", "")
	v.SetDefault("status.emoji", ":musical_note:")
	v.SetDefault("status.emoji_unicode", "🎵")
	v.SetDefault("status.ttl_seconds", 120)
	v.SetDefault("status.always_override", false)
	v.SetDefault("status.require_two_empty_reads", false)
	v.SetDefault("status.empty_read_window_seconds", 90)
	v.SetDefault("interval_seconds", 30)
	v.SetDefault("player.backend", BackendMPD)
	v.SetDefault("player.mpd_address", "localhost:6600")
	v.SetDefault("player.osascript_timeout_seconds", 5)
	v.SetDefault("cache.path", "tunestatus-cache.json")
	v.SetDefault("db.path", "tunestatus.db")
	v.SetDefault("log.file", "tunestatus.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_lines", 2000)
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.username", "admin")
	v.SetDefault("http.password_hash", "")
	v.SetDefault("censor.words", []string{})
}

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Slack.Token) == "" {
		return fmt.Errorf("slack.token is required (file or %s_SLACK_TOKEN)", envPrefix)
	}
	if c.Status.TTLSeconds < 0 {
		return fmt.Errorf("status.ttl_seconds must be >= 0, got %d", c.Status.TTLSeconds)
	}
	if c.Status.EmptyReadConfirmWindowSeconds < 0 {
		return fmt.Errorf("status.empty_read_window_seconds must be >= 0, got %d", c.Status.EmptyReadConfirmWindowSeconds)
	}
	if strings.TrimSpace(c.Status.Emoji) == "" && strings.TrimSpace(c.Status.EmojiUnicode) == "" {
		return fmt.Errorf("at least one of status.emoji / status.emoji_unicode must be set")
	}
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be > 0, got %d", c.IntervalSeconds)
	}
	switch c.Player.Backend {
	case BackendMPD, BackendOsascript:
	default:
		return fmt.Errorf("player.backend must be %q or %q, got %q", BackendMPD, BackendOsascript, c.Player.Backend)
	}
	if c.Log.MaxLines <= 0 {
		return fmt.Errorf("log.max_lines must be > 0, got %d", c.Log.MaxLines)
	}
	return nil
}

// Store owns the viper instance and hands out immutable Config snapshots.
type Store struct {
	mu  sync.RWMutex
	v   *viper.Viper
	cfg Config
}

// Load reads the config file at path, applies defaults and env overrides,
// and validates the result. A missing file is not an error (defaults + env
// apply); an unreadable or invalid one is.
func Load(path string) (*Store, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults + env; anything else is fatal.
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &Store{v: v, cfg: cfg}, nil
}

// Config returns the current snapshot.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update validates cfg, swaps it in, and persists it to the config file.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set("slack.token", cfg.Slack.Token)
	s.v.Set("status.emoji", cfg.Status.Emoji)
	s.v.Set("status.emoji_unicode", cfg.Status.EmojiUnicode)
	s.v.Set("status.ttl_seconds", cfg.Status.TTLSeconds)
	s.v.Set("status.always_override", cfg.Status.AlwaysOverride)
	s.v.Set("status.require_two_empty_reads", cfg.Status.RequireTwoEmptyReads)
	s.v.Set("status.empty_read_window_seconds", cfg.Status.EmptyReadConfirmWindowSeconds)
	s.v.Set("interval_seconds", cfg.IntervalSeconds)
	s.v.Set("player.backend", cfg.Player.Backend)
	s.v.Set("player.mpd_address", cfg.Player.MPDAddress)
	s.v.Set("player.osascript_timeout_seconds", cfg.Player.OsascriptTimeoutSeconds)
	s.v.Set("cache.path", cfg.Cache.Path)
	s.v.Set("db.path", cfg.DB.Path)
	s.v.Set("log.file", cfg.Log.File)
	s.v.Set("log.level", cfg.Log.Level)
	s.v.Set("log.max_lines", cfg.Log.MaxLines)
	s.v.Set("http.port", cfg.HTTP.Port)
	s.v.Set("http.username", cfg.HTTP.Username)
	s.v.Set("http.password_hash", cfg.HTTP.PasswordHash)
	s.v.Set("censor.words", cfg.Censor.Words)

	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	s.cfg = cfg
	return nil
}

// Watch re-reads the file on change and invokes onChange with the new
// snapshot when it parses and validates; bad edits are ignored and the last
// good snapshot stays live.
func (s *Store) Watch(onChange func(Config)) {
	s.v.OnConfigChange(func(fsnotify.Event) {
		var cfg Config
		if err := s.v.Unmarshal(&cfg); err != nil {
			return
		}
		if err := cfg.Validate(); err != nil {
			return
		}
		s.mu.Lock()
		s.cfg = cfg
		s.mu.Unlock()
		if onChange != nil {
			onChange(cfg)
		}
	})
	s.v.WatchConfig()
}
