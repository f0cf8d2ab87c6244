package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/harrisonrobin/gtasksprint/pkg/colors"
	"github.com/harrisonrobin/gtasksprint/pkg/render"
	"github.com/harrisonrobin/gtasksprint/pkg/terminal"
	"github.com/harrisonrobin/gtasksprint/pkg/urgency"
)

const (
	xdgAppName = "gtasksprint"
	configFile = "gtasksprint.toml"
	envPrefix  = "GTASKSPRINT"

	DefaultMaxDueFutureDays = 7
)

var (
	ErrNotFound     = errors.New("config file not found")
	ErrNoListName   = errors.New("tasks_config.tasks_list_name is not set")
	ErrInvalidValue = errors.New("invalid config value")
)

type Config struct {
	Tasks   TasksConfig
	Display DisplayConfig
	Colors  ColorsConfig
}

type TasksConfig struct {
	ListName         string
	MaxDueFutureDays int
}

type DisplayConfig struct {
	// Width is the box width. Zero means the terminal width.
	Width      int
	Color      string
	EmptyTitle string
}

// ColorsConfig holds terminal color codes: 0-255 or #rrggbb. Empty means the
// built-in color.
type ColorsConfig struct {
	Overdue   string
	DueToday  string
	DueLater  string
	NoDueDate string
	Notes     string
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Tasks:   TasksConfig{MaxDueFutureDays: DefaultMaxDueFutureDays},
		Display: DisplayConfig{Color: terminal.ColorAuto, EmptyTitle: "blank"},
	}
}

// Dir returns the directory holding the config file, the OAuth client secret
// and the token cache.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("tasks_config.tasks_list_name", "")
	v.SetDefault("tasks_config.max_due_future_days", DefaultMaxDueFutureDays)
	v.SetDefault("display.width", 0)
	v.SetDefault("display.color", terminal.ColorAuto)
	v.SetDefault("display.empty_title", "blank")
	for _, key := range colorKeys {
		v.SetDefault("colors."+key, "")
	}
	return v
}

var colorKeys = []string{"overdue", "due_today", "due_later", "no_due_date", "notes"}

// Load reads the config file at path, or the default location when path is
// empty. GTASKSPRINT_* environment variables override file values, e.g.
// GTASKSPRINT_TASKS_CONFIG_TASKS_LIST_NAME.
func Load(path string) (*Config, error) {
	path, cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func read(path string) (string, *Config, error) {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return "", nil, err
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return path, nil, fmt.Errorf("%w: %s should exist and set [tasks_config] tasks_list_name", ErrNotFound, path)
		}
		return path, nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return path, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return path, &Config{
		Tasks: TasksConfig{
			ListName:         strings.TrimSpace(v.GetString("tasks_config.tasks_list_name")),
			MaxDueFutureDays: v.GetInt("tasks_config.max_due_future_days"),
		},
		Display: DisplayConfig{
			Width:      v.GetInt("display.width"),
			Color:      v.GetString("display.color"),
			EmptyTitle: v.GetString("display.empty_title"),
		},
		Colors: ColorsConfig{
			Overdue:   v.GetString("colors.overdue"),
			DueToday:  v.GetString("colors.due_today"),
			DueLater:  v.GetString("colors.due_later"),
			NoDueDate: v.GetString("colors.no_due_date"),
			Notes:     v.GetString("colors.notes"),
		},
	}, nil
}

// Validate checks every value Load would accept.
func (c *Config) Validate() error {
	if c.Tasks.ListName == "" {
		return ErrNoListName
	}
	if c.Tasks.MaxDueFutureDays < 0 {
		return fmt.Errorf("%w: tasks_config.max_due_future_days must not be negative, got %d", ErrInvalidValue, c.Tasks.MaxDueFutureDays)
	}
	if c.Display.Width < 0 {
		return fmt.Errorf("%w: display.width must not be negative, got %d", ErrInvalidValue, c.Display.Width)
	}
	switch c.Display.Color {
	case "", terminal.ColorAuto, terminal.ColorAlways, terminal.ColorNever:
	default:
		return fmt.Errorf("%w: display.color must be auto, always or never, got %q", ErrInvalidValue, c.Display.Color)
	}
	if _, err := c.EmptyTitlePolicy(); err != nil {
		return err
	}
	for key, code := range c.colorCodes() {
		if code != "" && !colors.Valid(code) {
			return fmt.Errorf("%w: colors.%s must be 0-255 or #rrggbb, got %q", ErrInvalidValue, key, code)
		}
	}
	return nil
}

// EmptyTitlePolicy maps display.empty_title to the renderer's policy.
func (c *Config) EmptyTitlePolicy() (render.EmptyTitlePolicy, error) {
	switch c.Display.EmptyTitle {
	case "", "blank":
		return render.BlankEmptyTitle, nil
	case "skip":
		return render.SkipEmptyTitle, nil
	}
	return render.BlankEmptyTitle, fmt.Errorf("%w: display.empty_title must be blank or skip, got %q", ErrInvalidValue, c.Display.EmptyTitle)
}

// Palette returns the configured colors on top of the defaults.
func (c *Config) Palette() colors.Palette {
	var p colors.Palette
	p.Classes[urgency.Overdue] = c.Colors.Overdue
	p.Classes[urgency.DueToday] = c.Colors.DueToday
	p.Classes[urgency.DueLater] = c.Colors.DueLater
	p.Classes[urgency.NoDueDate] = c.Colors.NoDueDate
	p.Notes = c.Colors.Notes
	return p
}

func (c *Config) colorCodes() map[string]string {
	return map[string]string{
		"overdue":     c.Colors.Overdue,
		"due_today":   c.Colors.DueToday,
		"due_later":   c.Colors.DueLater,
		"no_due_date": c.Colors.NoDueDate,
		"notes":       c.Colors.Notes,
	}
}

// Save writes cfg as TOML to path, or to the default location when path is
// empty.
func Save(path string, cfg *Config) error {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("tasks_config.tasks_list_name", cfg.Tasks.ListName)
	v.Set("tasks_config.max_due_future_days", cfg.Tasks.MaxDueFutureDays)
	v.Set("display.width", cfg.Display.Width)
	v.Set("display.color", cfg.Display.Color)
	v.Set("display.empty_title", cfg.Display.EmptyTitle)
	for key, code := range cfg.colorCodes() {
		if code != "" {
			v.Set("colors."+key, code)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	if err := v.WriteConfigTo(f); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SetList stores name as the task list to print, keeping the other values of
// an existing config file.
func SetList(path, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNoListName
	}
	path, cfg, err := read(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		cfg = Default()
	}
	cfg.Tasks.ListName = name
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return Save(path, cfg)
}
