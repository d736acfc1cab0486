// Package config loads chartkit settings.
//
// Sources, lowest precedence first: defaults, chartkit.yaml, .env,
// CHARTKIT_* environment variables, command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chartkit/internal/render"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	Render   RenderConfig   `mapstructure:"render"`
	Fonts    FontsConfig    `mapstructure:"fonts"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type RenderConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Format string `mapstructure:"format"`
	OutDir string `mapstructure:"out_dir"`
	// Steps is the number of value-axis intervals.
	Steps int `mapstructure:"steps"`
}

type FontsConfig struct {
	Dirs []string `mapstructure:"dirs"`
	// Default replaces the built-in face wherever a scheme uses it.
	Default string `mapstructure:"default"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
	// Rate is the number of uploads per second, Burst the bucket size.
	Rate       float64 `mapstructure:"rate"`
	Burst      int     `mapstructure:"burst"`
	MaxRetries int     `mapstructure:"max_retries"`
	// RequestTimeout is in seconds.
	RequestTimeout int `mapstructure:"request_timeout"`
}

// Options selects where Load looks.
type Options struct {
	// ConfigFile overrides the chartkit.yaml lookup.
	ConfigFile string
	// EnvFile is loaded into the environment when present (default .env).
	EnvFile string
	// Flags are bound last; they should come from RegisterFlags.
	Flags *pflag.FlagSet
}

// Load merges every source into a validated Config.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("chartkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read chartkit.yaml: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CHARTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if opts.Flags != nil {
		if err := v.BindPFlags(opts.Flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	cfg.Fonts.Dirs = splitList(v.Get("fonts.dirs"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList accepts a YAML list or a comma separated string (from .env).
func splitList(raw any) []string {
	var items []string
	switch v := raw.(type) {
	case string:
		items = strings.Split(v, ",")
	case []string:
		items = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// setupEnvAliases binds the short names also accepted in .env files.
func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("telegram.token", "CHARTKIT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "CHARTKIT_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	v.BindEnv("fonts.dirs", "CHARTKIT_FONTS_DIRS", "CHARTKIT_FONT_DIRS")
	v.BindEnv("log.dir", "CHARTKIT_LOG_DIR")
	v.BindEnv("log.level", "CHARTKIT_LOG_LEVEL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render.width", 390)
	v.SetDefault("render.height", 160)
	v.SetDefault("render.format", string(render.PNG))
	v.SetDefault("render.out_dir", "out")
	v.SetDefault("render.steps", 4)

	v.SetDefault("fonts.dirs", defaultFontDirs())
	v.SetDefault("fonts.default", "")

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", "info")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.rate", 1.0)
	v.SetDefault("telegram.burst", 3)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.request_timeout", 30)
}

func defaultFontDirs() []string {
	dirs := []string{"fonts"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, "Library", "Fonts"))
	}
	return append(dirs,
		"/usr/share/fonts/truetype",
		"/usr/local/share/fonts",
		"/System/Library/Fonts",
		"/Library/Fonts",
	)
}

// RegisterFlags defines the config flags on fs, named after their keys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("render.width", 390, "Canvas width in pixels (env: CHARTKIT_RENDER_WIDTH)")
	fs.Int("render.height", 160, "Canvas height in pixels (env: CHARTKIT_RENDER_HEIGHT)")
	fs.String("render.format", string(render.PNG), "Output format: png, svg or pdf (env: CHARTKIT_RENDER_FORMAT)")
	fs.String("render.out_dir", "out", "Output directory (env: CHARTKIT_RENDER_OUT_DIR)")
	fs.Int("render.steps", 4, "Value axis intervals (env: CHARTKIT_RENDER_STEPS)")

	fs.StringSlice("fonts.dirs", nil, "Font search directories (env: CHARTKIT_FONTS_DIRS)")
	fs.String("fonts.default", "", "Face used instead of the built-in sans (env: CHARTKIT_FONTS_DEFAULT)")

	fs.String("log.dir", "logs", "Log directory, empty to disable the file log (env: CHARTKIT_LOG_DIR)")
	fs.String("log.level", "info", "File log level (env: CHARTKIT_LOG_LEVEL)")

	fs.String("telegram.token", "", "Bot token (env: CHARTKIT_TELEGRAM_TOKEN)")
	fs.Int64("telegram.chat_id", 0, "Chat to publish to (env: CHARTKIT_TELEGRAM_CHAT_ID)")
	fs.Float64("telegram.rate", 1, "Uploads per second (env: CHARTKIT_TELEGRAM_RATE)")
	fs.Int("telegram.burst", 3, "Upload burst size (env: CHARTKIT_TELEGRAM_BURST)")
	fs.Int("telegram.max_retries", 3, "Retries for throttled or failed uploads (env: CHARTKIT_TELEGRAM_MAX_RETRIES)")
	fs.Int("telegram.request_timeout", 30, "Upload timeout in seconds (env: CHARTKIT_TELEGRAM_REQUEST_TIMEOUT)")
}

// Validate checks the render, log and rate settings. Telegram credentials
// are checked by ValidateTelegram since only publishing needs them.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size must be positive, got %dx%d", ErrConfig, c.Render.Width, c.Render.Height)
	}
	if _, err := render.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("%w: render.format: %v", ErrConfig, err)
	}
	if c.Render.Steps <= 0 {
		return fmt.Errorf("%w: render.steps must be positive, got %d", ErrConfig, c.Render.Steps)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", ErrConfig, c.Log.Level)
	}
	if c.Telegram.Rate <= 0 || c.Telegram.Burst <= 0 {
		return fmt.Errorf("%w: telegram.rate and telegram.burst must be positive", ErrConfig)
	}
	if c.Telegram.MaxRetries < 0 {
		return fmt.Errorf("%w: telegram.max_retries must not be negative", ErrConfig)
	}
	return nil
}

// ValidateTelegram checks the settings publish needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required (env: CHARTKIT_TELEGRAM_TOKEN)", ErrConfig)
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("%w: telegram.chat_id is required (env: CHARTKIT_TELEGRAM_CHAT_ID)", ErrConfig)
	}
	return nil
}
