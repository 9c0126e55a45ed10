package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten"
	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/output"
	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/parser"
)

const envPrefix = "UNFLATTEN"

// settings is the merged view of flags, UNFLATTEN_* environment variables
// and the optional config file, in that order of precedence.
//
// Sheet names and metadata paths are case sensitive, so they are given as
// "key=value" lists rather than maps, whose keys viper lowercases.
type settings struct {
	MainSheet   string            `mapstructure:"main-sheet"`
	RootID      string            `mapstructure:"root-id"`
	NoRootID    bool              `mapstructure:"no-root-id"`
	IDName      string            `mapstructure:"id-name"`
	Separator   string            `mapstructure:"separator"`
	SubSheets   []string          `mapstructure:"sub-sheet"`
	SkipColumns []string          `mapstructure:"skip-column"`
	InputFormat string            `mapstructure:"input-format"`
	KeepText    bool              `mapstructure:"keep-text"`
	Output      string            `mapstructure:"output"`
	Pretty      bool              `mapstructure:"pretty"`
	Lines       bool              `mapstructure:"lines"`
	Envelope    string            `mapstructure:"envelope"`
	Meta        []string          `mapstructure:"meta"`
	LogLevel    string            `mapstructure:"log-level"`
	LogFormat   string            `mapstructure:"log-format"`
}

func loadSettings(flags *pflag.FlagSet, configFile string) (*settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &s, nil
}

// parsePairs splits "key=value" entries. Later entries override earlier ones.
func parsePairs(name string, entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	pairs := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q: want key=value", name, entry)
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs, nil
}

func (s *settings) unflattenConfig() (unflatten.Config, error) {
	subSheets, err := parsePairs("sub-sheet", s.SubSheets)
	if err != nil {
		return unflatten.Config{}, err
	}

	cfg := unflatten.DefaultConfig(s.MainSheet)
	switch {
	case s.NoRootID:
		cfg = cfg.WithRootID("")
	case s.RootID != "":
		cfg = cfg.WithRootID(s.RootID)
	}
	if s.IDName != "" {
		cfg.IDName = s.IDName
	}
	if s.Separator != "" {
		cfg.Separator = s.Separator
	}
	cfg.SubSheets = subSheets
	cfg.SkipColumns = s.SkipColumns
	return cfg, nil
}

func (s *settings) parserOptions() (parser.Format, parser.Options, error) {
	format, err := parser.ParseFormat(s.InputFormat)
	if err != nil {
		return format, parser.Options{}, err
	}
	return format, parser.Options{KeepText: s.KeepText}, nil
}

func (s *settings) outputOptions() (output.Options, error) {
	opts := output.Options{
		Pretty:   s.Pretty,
		Lines:    s.Lines,
		Envelope: s.Envelope,
	}
	meta, err := parsePairs("meta", s.Meta)
	if err != nil {
		return opts, err
	}
	if len(meta) > 0 {
		opts.Metadata = make(map[string]interface{}, len(meta))
		for k, val := range meta {
			opts.Metadata[k] = val
		}
	}
	return opts, nil
}
