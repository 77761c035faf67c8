package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabler/internal/config"
	"github.com/oakwood-commons/tabler/pkg/logger"
	"github.com/oakwood-commons/tabler/pkg/settings"
)

var configFormat string

// loadRunConfig loads the defaults merged with the user config resolved for
// this run.
func loadRunConfig(ctx context.Context) (config.Config, error) {
	path := config.ResolvePath(configFile)
	if run, ok := settings.FromContext(ctx); ok {
		path = run.ConfigFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		logger.FromContext(ctx).V(1).Info("loaded config", logger.FileKey, path)
	}
	return cfg, nil
}

// encodeConfig renders cfg as YAML or TOML.
func encodeConfig(cfg config.Config, format string) (string, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return "", fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode config: %w", err)
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return "", fmt.Errorf("encode config: %w", err)
		}
	default:
		return "", usageErrorf("invalid config format %q (valid values: yaml, toml)", format)
	}
	return buf.String(), nil
}

// configCmd prints the merged configuration, a starting point for a user
// config file.
var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show the merged configuration",
	Example: "\n  tabler config > ~/.config/tabler/config.yaml\n  tabler config --format toml\n",
	Args:    usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadRunConfig(cmd.Context())
		if err != nil {
			return err
		}
		out, err := encodeConfig(cfg, configFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "config output format: yaml|toml")
}
