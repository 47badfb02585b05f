// Package config resolves the sheetfill run configuration from defaults, an
// optional YAML file, SHEETFILL_* environment variables and command line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/document"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/locator"
)

const (
	EnvPrefix = "SHEETFILL"

	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultReportFormat = "json"
)

// Keys as they appear in config files. Environment variables are the
// upper-cased key with dots replaced by underscores, prefixed SHEETFILL_.
const (
	KeyIdentifierColumn = "id_column"
	KeyVariant          = "variant"
	KeyTargets          = "targets"
	KeyRules            = "rules"
	KeyField            = "field"
	KeyPattern          = "pattern"
	KeyKeywords         = "keywords"
	KeyConfidenceColors = "confidence_colors"
	KeyColorResolved    = "colors.resolved"
	KeyColorContextual  = "colors.contextual"
	KeyColorUnresolved  = "colors.unresolved"
	KeyMaxFileSize      = "max_file_size"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyWorkdir          = "workdir"
	KeyReport           = "report"
	KeyReportFormat     = "report_format"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"id-column":         KeyIdentifierColumn,
	"variant":           KeyVariant,
	"targets":           KeyTargets,
	"field":             KeyField,
	"pattern":           KeyPattern,
	"confidence-colors": KeyConfidenceColors,
	"max-file-size":     KeyMaxFileSize,
	"log-level":         KeyLogLevel,
	"log-format":        KeyLogFormat,
	"workdir":           KeyWorkdir,
	"report":            KeyReport,
	"report-format":     KeyReportFormat,
}

var hexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// RuleConfig is one entry of the rules list. A list is used instead of a
// map because config keys are case-folded on load and field names must
// match headers exactly.
type RuleConfig struct {
	Field   string `mapstructure:"field"`
	Pattern string `mapstructure:"pattern"`
}

// Colors overrides individual palette entries. Empty means keep the palette
// color.
type Colors struct {
	Resolved   string
	Contextual string
	Unresolved string
}

// Config holds the settings of one sheetfill invocation.
type Config struct {
	File string // config file used, if any

	IdentifierColumn string
	Variant          string
	Targets          []string
	Rules            []RuleConfig
	Field            string
	Pattern          string
	Keywords         map[string][]string
	ConfidenceColors bool
	Colors           Colors
	MaxFileSize      int64

	LogLevel     string
	LogFormat    string
	Workdir      string
	Report       string
	ReportFormat string
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		IdentifierColumn: sheetfill.DefaultIdentifierColumn,
		Variant:          string(sheetfill.DefaultVariant),
		MaxFileSize:      document.DefaultMaxFileSize,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		ReportFormat:     DefaultReportFormat,
	}
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "YAML config file")
	fs.String("id-column", d.IdentifierColumn, "Header of the identifier column")
	fs.String("variant", d.Variant, "Extraction variant: table, generated, contextual, hybrid")
	fs.StringSlice("targets", nil, "Target columns to populate (default: derived from the variant)")
	fs.String("field", "", "Field of a single extra rule (used with --pattern)")
	fs.String("pattern", "", "Regex of a single extra rule; group 1 is the value")
	fs.Bool("confidence-colors", false, "Color literal and contextual matches differently")
	fs.Int64("max-file-size", d.MaxFileSize, "Maximum document size in bytes")
	fs.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("log-format", d.LogFormat, "Log format (console, json)")
	fs.String("workdir", "", "Base directory for run workspaces (default: system temp dir)")
	fs.String("report", "", "Write a run report to this path")
	fs.String("report-format", d.ReportFormat, "Report format (json, yaml)")
}

// Load resolves the configuration for the flags in fs. fs may be nil, in
// which case only defaults, the environment and configFile apply.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile == "" && fs != nil {
		configFile, _ = fs.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg, err := populate(v)
	if err != nil {
		return nil, err
	}
	cfg.File = configFile

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyIdentifierColumn, d.IdentifierColumn)
	v.SetDefault(KeyVariant, d.Variant)
	v.SetDefault(KeyMaxFileSize, d.MaxFileSize)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyReportFormat, d.ReportFormat)
}

func populate(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		IdentifierColumn: strings.TrimSpace(v.GetString(KeyIdentifierColumn)),
		Variant:          strings.ToLower(strings.TrimSpace(v.GetString(KeyVariant))),
		Targets:          stringList(v.Get(KeyTargets)),
		Field:            strings.TrimSpace(v.GetString(KeyField)),
		Pattern:          v.GetString(KeyPattern),
		ConfidenceColors: v.GetBool(KeyConfidenceColors),
		Colors: Colors{
			Resolved:   v.GetString(KeyColorResolved),
			Contextual: v.GetString(KeyColorContextual),
			Unresolved: v.GetString(KeyColorUnresolved),
		},
		MaxFileSize:  v.GetInt64(KeyMaxFileSize),
		LogLevel:     strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
		Workdir:      v.GetString(KeyWorkdir),
		Report:       v.GetString(KeyReport),
		ReportFormat: strings.ToLower(v.GetString(KeyReportFormat)),
	}

	if v.IsSet(KeyRules) {
		if err := v.UnmarshalKey(KeyRules, &cfg.Rules); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", KeyRules, err)
		}
	}
	if v.IsSet(KeyKeywords) {
		cfg.Keywords = make(map[string][]string)
		for field, kws := range v.GetStringMap(KeyKeywords) {
			cfg.Keywords[field] = stringList(kws)
		}
	}
	return cfg, nil
}

// stringList accepts a YAML list or a comma separated string, the form
// environment variables take.
func stringList(val interface{}) []string {
	var raw []string
	switch x := val.(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(x, ",")
	case []string:
		raw = x
	case []interface{}:
		for _, item := range x {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = []string{fmt.Sprint(x)}
	}

	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.IdentifierColumn == "" {
		return errors.New("identifier column cannot be empty")
	}
	if _, err := locator.ParseVariant(c.Variant); err != nil {
		return err
	}
	if (c.Field == "") != (c.Pattern == "") {
		return errors.New("--field and --pattern must be given together")
	}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Field) == "" || r.Pattern == "" {
			return fmt.Errorf("rule %d: field and pattern are required", i+1)
		}
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}
	if c.ReportFormat != "json" && c.ReportFormat != "yaml" && c.ReportFormat != "yml" {
		return fmt.Errorf("invalid report format: %s (must be json or yaml)", c.ReportFormat)
	}

	for name, color := range map[string]string{
		"resolved":   c.Colors.Resolved,
		"contextual": c.Colors.Contextual,
		"unresolved": c.Colors.Unresolved,
	} {
		if color != "" && !hexColor.MatchString(color) {
			return fmt.Errorf("invalid %s color: %s (must be 6-digit hex RGB)", name, color)
		}
	}
	return nil
}

// Options builds fill options. Rule patterns are compiled here, so a bad
// pattern surfaces as a *sheetfill.ConfigError before any row is processed.
func (c *Config) Options() (sheetfill.Options, error) {
	opts := sheetfill.DefaultOptions()
	opts.IdentifierColumn = c.IdentifierColumn
	opts.Variant = locator.Variant(c.Variant)
	opts.Targets = c.Targets

	if len(c.Rules) > 0 || c.Field != "" {
		table, err := locator.NewTable(c.patterns())
		if err != nil {
			return opts, sheetfill.NewConfigError("rules", c.File, err)
		}
		opts.Table = table
	}

	if len(c.Keywords) > 0 {
		merged := make(map[string][]string, len(locator.DefaultKeywords)+len(c.Keywords))
		for field, kws := range locator.DefaultKeywords {
			merged[field] = kws
		}
		for field, kws := range c.Keywords {
			merged[strings.ToLower(field)] = kws
		}
		opts.Keywords = locator.NewContextual(merged)
	}

	palette := sheetfill.DefaultPalette()
	if c.ConfidenceColors {
		palette = sheetfill.ConfidencePalette()
	}
	if c.Colors.Resolved != "" {
		palette.Resolved = c.Colors.Resolved
	}
	if c.Colors.Contextual != "" {
		palette.Contextual = c.Colors.Contextual
	}
	if c.Colors.Unresolved != "" {
		palette.Unresolved = c.Colors.Unresolved
	}
	opts.Palette = &palette

	return opts, nil
}

// patterns returns the rule table: configured rules replace the built-in
// table, and --field/--pattern adds (or overrides) one entry on top.
func (c *Config) patterns() map[string]string {
	out := make(map[string]string)
	if len(c.Rules) == 0 {
		for field, p := range locator.DefaultTablePatterns {
			out[field] = p
		}
	}
	for _, r := range c.Rules {
		out[strings.TrimSpace(r.Field)] = r.Pattern
	}
	if c.Field != "" {
		out[c.Field] = c.Pattern
	}
	return out
}

// Ruleset resolves the rule bound to each target. headers restricts and
// orders the targets the way a fill pass would; nil uses the configured
// targets as given.
func (c *Config) Ruleset(headers []string) (*locator.Ruleset, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	targets := opts.Targets
	if headers != nil {
		targets = opts.ResolveTargets(headers)
	}
	rs, err := locator.Build(opts.EffectiveVariant(), targets, opts.Table, opts.Keywords)
	if err != nil {
		return nil, sheetfill.NewConfigError("variant", c.Variant, err)
	}
	return rs, nil
}
