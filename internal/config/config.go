// Package config loads tabler's settings: an embedded default file overlaid
// with an optional user file in YAML or TOML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabler/internal/layout"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// AppDir is the directory name under the user config root.
const AppDir = "tabler"

type Config struct {
	Rows     RowsConfig     `yaml:"rows" toml:"rows"`
	Layout   LayoutConfig   `yaml:"layout" toml:"layout"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Workbook WorkbookConfig `yaml:"workbook" toml:"workbook"`
}

type RowsConfig struct {
	DefaultCap int `yaml:"default_cap" toml:"default_cap"`
}

type LayoutConfig struct {
	Indent IndentConfig `yaml:"indent" toml:"indent"`
}

type IndentConfig struct {
	Base       int `yaml:"base" toml:"base"`
	WideStep   int `yaml:"wide_step" toml:"wide_step"`
	WideFrom   int `yaml:"wide_from" toml:"wide_from"`
	WideTo     int `yaml:"wide_to" toml:"wide_to"`
	NarrowStep int `yaml:"narrow_step" toml:"narrow_step"`
	NarrowFrom int `yaml:"narrow_from" toml:"narrow_from"`
	NarrowTo   int `yaml:"narrow_to" toml:"narrow_to"`
}

type RenderConfig struct {
	Sentinel string      `yaml:"sentinel" toml:"sentinel"`
	Wrap     bool        `yaml:"wrap" toml:"wrap"`
	Theme    ThemeConfig `yaml:"theme" toml:"theme"`
}

// ThemeConfig holds lipgloss color strings: ANSI numbers ("6") or hex
// ("#00afaf"). Empty means the terminal default.
type ThemeConfig struct {
	Header string `yaml:"header" toml:"header"`
	Border string `yaml:"border" toml:"border"`
	Cell   string `yaml:"cell" toml:"cell"`
}

type WorkbookConfig struct {
	DefaultSheet string `yaml:"default_sheet" toml:"default_sheet"`
}

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded default config.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. Keys missing from
// the file keep their default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decodeInto(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeInto(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", ext)
	}
}

// Validate rejects settings the renderer cannot honor.
func (c Config) Validate() error {
	if c.Rows.DefaultCap < 1 {
		return fmt.Errorf("rows.default_cap must be at least 1, got %d", c.Rows.DefaultCap)
	}
	in := c.Layout.Indent
	if in.Base < 0 || in.WideStep < 0 || in.NarrowStep < 0 {
		return fmt.Errorf("layout.indent values must be non-negative")
	}
	if in.WideFrom > in.WideTo || in.NarrowFrom > in.NarrowTo {
		return fmt.Errorf("layout.indent ranges must have from <= to")
	}
	return nil
}

// LayoutConfig converts the settings into the layout engine's tuning.
func (c Config) LayoutConfig() layout.Config {
	in := c.Layout.Indent
	return layout.Config{
		DefaultCap: c.Rows.DefaultCap,
		Base:       in.Base,
		WideStep:   in.WideStep,
		WideFrom:   in.WideFrom,
		WideTo:     in.WideTo,
		NarrowStep: in.NarrowStep,
		NarrowFrom: in.NarrowFrom,
		NarrowTo:   in.NarrowTo,
	}
}

// ResolvePath returns the explicit path if set, otherwise
// $XDG_CONFIG_HOME/tabler/config.yaml or ~/.config/tabler/config.yaml when
// that file exists. It returns "" when no user config applies.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, AppDir, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", AppDir, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
