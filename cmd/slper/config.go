package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const configName = ".slper"

func setDefaults() {
	viper.SetDefault("delimiter", "\t")
	viper.SetDefault("min_prop_samples", 0.0)
	viper.SetDefault("missing", "nan")
	viper.SetDefault("log_level", "info")
}

// initConfig loads cfgFile, or ~/.slper.yaml if present, and SLPER_* env vars.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("slper")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// setting is a configuration key that may be stored in the config file.
type setting struct {
	key   string
	help  string
	parse func(string) (any, error)
}

var settings = []setting{
	{"delimiter", "field delimiter; escapes such as \\t are accepted", parseDelimiter},
	{"min_prop_samples", "dense input: proportion of rows a locus must be observed in", parseProportion},
	{"missing", "dense input: value for -1 entries (nan or a number)", func(s string) (any, error) {
		if _, err := parseMissing(s); err != nil {
			return nil, err
		}
		return s, nil
	}},
	{"log_level", "debug, info, warn or error", func(s string) (any, error) {
		if _, err := zapcore.ParseLevel(s); err != nil {
			return nil, err
		}
		return s, nil
	}},
}

func lookupSetting(key string) (setting, error) {
	for _, s := range settings {
		if s.key == key {
			return s, nil
		}
	}
	known := make([]string, len(settings))
	for i, s := range settings {
		known[i] = s.key
	}
	return setting{}, &usageError{fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(known, ", "))}
}

func parseDelimiter(s string) (any, error) {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		s = u
	}
	if s == "" {
		return nil, errors.New("delimiter must not be empty")
	}
	return s, nil
}

func parseProportion(s string) (any, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1 {
		return nil, fmt.Errorf("expected a proportion between 0 and 1, got %q", s)
	}
	return v, nil
}

// configPath returns the file config set writes to.
func configPath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func configHelp() string {
	var b strings.Builder
	b.WriteString("Show the effective configuration, or get and set values stored in ~/.slper.yaml.\n\nKeys:\n")
	for _, s := range settings {
		fmt.Fprintf(&b, "  %-18s %s\n", s.key, s.help)
	}
	return b.String()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage slper configuration",
		Long:  configHelp(),
		Example: `  slper config                           # show effective config
  slper config set min_prop_samples 0.1  # prune rarely observed loci
  slper config set delimiter ','         # comma-separated input
  slper config get delimiter`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a configuration value in the config file",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a configuration key",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command) error {
	effective := make(map[string]any, len(settings))
	for _, s := range settings {
		effective[s.key] = viper.Get(s.key)
	}
	out, err := yaml.Marshal(effective)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	w := cmd.OutOrStdout()
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintf(w, "# config file: %s\n", f)
	}
	fmt.Fprint(w, string(out))
	return nil
}

// runConfigSet validates value and stores it under key, leaving other keys
// in the file untouched.
func runConfigSet(cmd *cobra.Command, key, value string) error {
	s, err := lookupSetting(key)
	if err != nil {
		return err
	}
	v, err := s.parse(value)
	if err != nil {
		return &usageError{fmt.Errorf("invalid value for %s: %w", key, err)}
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	stored := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
		if stored == nil {
			stored = map[string]any{}
		}
	}
	stored[key] = v

	out, err := yaml.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %q in %s\n", key, value, path)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if _, err := lookupSetting(key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%v\n", viper.Get(key))
	return nil
}
