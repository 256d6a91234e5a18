package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/timu/internal/bank"
)

// EnvPrefix prefixes every environment override, e.g. TIMU_BANKS_SOURCE.
const EnvPrefix = "TIMU"

// Config holds all runtime configuration.
type Config struct {
	Banks BanksConfig `mapstructure:"banks"`

	// PreparationSeconds is the countdown shown before a staged session.
	PreparationSeconds int `mapstructure:"preparation_seconds"`

	// FeedbackDelay is how long instant feedback stays on screen before
	// the next question. Default: 1.5s.
	FeedbackDelay time.Duration `mapstructure:"feedback_delay"`

	Log LogConfig `mapstructure:"log"`

	// Categories lists the banks in menu order. Empty means the built-in
	// set.
	Categories []CategoryConfig `mapstructure:"categories"`

	Mixed MixedConfig `mapstructure:"mixed"`
}

// BanksConfig selects where bank documents come from.
type BanksConfig struct {
	// Source is a directory, an http(s) base URL, or empty for the banks
	// compiled into the binary.
	Source string `mapstructure:"source"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // Empty means the default state path
}

// CategoryConfig describes one bank.
type CategoryConfig struct {
	ID               string `mapstructure:"id"`
	Name             string `mapstructure:"name"`
	File             string `mapstructure:"file"`
	Kind             string `mapstructure:"kind"`
	Count            int    `mapstructure:"count"`
	ScorePerQuestion int    `mapstructure:"score_per_question"`
	Mode             string `mapstructure:"mode"`
}

// MixedConfig describes the combined session over every bank.
type MixedConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Name             string `mapstructure:"name"`
	Count            int    `mapstructure:"count"`
	ScorePerQuestion int    `mapstructure:"score_per_question"`
}

// DefaultCategories returns the built-in bank set.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{ID: "xz", Name: "选择题", File: "xz.json", Kind: string(bank.KindMultipleChoice), Count: 20, ScorePerQuestion: 2, Mode: string(bank.ModeStaged)},
		{ID: "tk", Name: "填空题", File: "tk.json", Kind: string(bank.KindFillInBlank), Count: 20, ScorePerQuestion: 2, Mode: string(bank.ModeStaged)},
		{ID: "pd", Name: "判断题", File: "pd.json", Kind: string(bank.KindTrueFalse), Count: 10, ScorePerQuestion: 2, Mode: string(bank.ModeStaged)},
	}
}

// Default returns a Config with every default applied.
func Default() Config {
	return Config{
		PreparationSeconds: 3,
		FeedbackDelay:      1500 * time.Millisecond,
		Log:                LogConfig{Level: "info"},
		Categories:         DefaultCategories(),
		Mixed: MixedConfig{
			Enabled:          true,
			Name:             "综合练习",
			Count:            30,
			ScorePerQuestion: 2,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("banks.source", d.Banks.Source)
	v.SetDefault("preparation_seconds", d.PreparationSeconds)
	v.SetDefault("feedback_delay", d.FeedbackDelay)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("mixed.enabled", d.Mixed.Enabled)
	v.SetDefault("mixed.name", d.Mixed.Name)
	v.SetDefault("mixed.count", d.Mixed.Count)
	v.SetDefault("mixed.score_per_question", d.Mixed.ScorePerQuestion)
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When set it must exist.
	File string

	// DotEnv is a .env file loaded into the process environment before
	// reading overrides. Missing files are ignored. Default: ".env".
	DotEnv string

	// Flags, when set, are bound to keys: --banks, --log-file and
	// --log-level.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"banks":     "banks.source",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// Load resolves configuration in increasing priority: defaults, the
// config file, TIMU_* environment variables (including those from .env),
// then flags.
func Load(opts Options) (Config, error) {
	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("timu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/timu, falling back to ~/.config/timu.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "timu"), nil
}

// Validate checks the category set and numeric settings.
func (c Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	if c.PreparationSeconds < 0 {
		return fmt.Errorf("preparation_seconds must not be negative, got %d", c.PreparationSeconds)
	}
	if c.FeedbackDelay < 0 {
		return fmt.Errorf("feedback_delay must not be negative, got %s", c.FeedbackDelay)
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("categories[%d]: id is required", i)
		}
		if cat.ID == bank.MixedID {
			return fmt.Errorf("categories[%d]: id %q is reserved", i, cat.ID)
		}
		if seen[cat.ID] {
			return fmt.Errorf("categories[%d]: duplicate id %q", i, cat.ID)
		}
		seen[cat.ID] = true

		if cat.File == "" {
			return fmt.Errorf("category %s: file is required", cat.ID)
		}
		if !bank.Kind(cat.Kind).Valid() {
			return fmt.Errorf("category %s: unknown kind %q", cat.ID, cat.Kind)
		}
		if cat.Count < 0 {
			return fmt.Errorf("category %s: count must not be negative, got %d", cat.ID, cat.Count)
		}
		if cat.ScorePerQuestion < 0 {
			return fmt.Errorf("category %s: score_per_question must not be negative, got %d", cat.ID, cat.ScorePerQuestion)
		}
		switch bank.Mode(cat.Mode) {
		case "", bank.ModeStaged, bank.ModeInstant:
		default:
			return fmt.Errorf("category %s: unknown mode %q", cat.ID, cat.Mode)
		}
	}

	if c.Mixed.Count < 0 || c.Mixed.ScorePerQuestion < 0 {
		return fmt.Errorf("mixed: count and score_per_question must not be negative")
	}
	return nil
}

// BankCategories converts the configured categories for the loader and
// runner.
func (c Config) BankCategories() []bank.Category {
	out := make([]bank.Category, 0, len(c.Categories))
	for _, cc := range c.Categories {
		mode := bank.Mode(cc.Mode)
		if mode == "" {
			mode = bank.ModeStaged
		}
		name := cc.Name
		if name == "" {
			name = cc.ID
		}
		out = append(out, bank.Category{
			ID:               cc.ID,
			Name:             name,
			File:             cc.File,
			Kind:             bank.Kind(cc.Kind),
			Count:            cc.Count,
			ScorePerQuestion: cc.ScorePerQuestion,
			Mode:             mode,
		})
	}
	return out
}

// MixedCategory returns the combined category, or nil when disabled.
func (c Config) MixedCategory() *bank.Category {
	if !c.Mixed.Enabled {
		return nil
	}
	return &bank.Category{
		ID:               bank.MixedID,
		Name:             c.Mixed.Name,
		Count:            c.Mixed.Count,
		ScorePerQuestion: c.Mixed.ScorePerQuestion,
		Mode:             bank.ModeInstant,
	}
}
