package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/khanhnv2901/webcomply/internal/shared/constants"
)

const (
	appName         = "webcomply"
	configEnvPrefix = "WEBCOMPLY"
	configFileName  = ".webcomply.yaml"
)

// Report output formats.
const (
	outputText     = "text"
	outputJSON     = "json"
	outputYAML     = "yaml"
	outputMarkdown = "markdown"
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Verbose bool
	Mute    bool
	Scan    ScanRuntimeConfig
}

// ScanRuntimeConfig consolidates flag-driven settings for the scan command.
type ScanRuntimeConfig struct {
	TimeoutSecs     int
	Concurrency     int
	RateLimit       int
	UserAgent       string
	Output          string
	ProgressEnabled bool
	CookieMaxMonths int
	Checks          CheckSelection
}

// CheckSelection records which checks the user enabled.
type CheckSelection struct {
	NFZ         bool
	SSL         bool
	Fonts       bool
	Prefetching bool
	Analytics   bool
	CDN         bool
	Social      bool
	// CookieMonths is the requested lifetime threshold. Zero with Cookies set
	// means the configured default.
	Cookies      bool
	CookieMonths int
}

type configOverrides struct {
	TimeoutSecs     *int
	Concurrency     *int
	RateLimit       *int
	CookieMaxMonths *int
	Progress        *bool
	UserAgent       string
	Output          string
}

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Scan: ScanRuntimeConfig{
			TimeoutSecs:     int(consts.DefaultCheckTimeout.Seconds()),
			Concurrency:     0,
			RateLimit:       0,
			UserAgent:       consts.DefaultUserAgent,
			Output:          outputText,
			CookieMaxMonths: consts.DefaultCookieMaxMonths,
			Checks: CheckSelection{
				SSL:   true,
				Fonts: true,
			},
		},
	}
}

// defaultConfigFiles lists the config locations searched when --config is
// not given, in priority order.
func defaultConfigFiles() []string {
	var files []string
	if home, err := homedir.Dir(); err == nil {
		files = append(files, filepath.Join(home, configFileName))
	}
	return append(files, filepath.Join(xdg.ConfigHome, appName, "config.yaml"))
}

// readConfig loads the config file and environment into v. A missing default
// config file is not an error; a missing or malformed explicit one is.
func readConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(configEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := cfgFile
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return &UsageError{Err: fmt.Errorf("invalid config path %q: %w", cfgFile, err)}
		}
		path = expanded
	} else {
		for _, candidate := range defaultConfigFiles() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return &UsageError{Err: fmt.Errorf("failed to read config %s: %w", path, err)}
	}
	return nil
}

func loadConfigOverrides(v *viper.Viper) configOverrides {
	overrides := configOverrides{}

	if v.IsSet("scan.timeout_secs") {
		val := v.GetInt("scan.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if v.IsSet("scan.concurrency") {
		val := v.GetInt("scan.concurrency")
		overrides.Concurrency = &val
	}

	if v.IsSet("scan.rate_limit") {
		val := v.GetInt("scan.rate_limit")
		overrides.RateLimit = &val
	}

	if v.IsSet("scan.cookie_max_months") {
		val := v.GetInt("scan.cookie_max_months")
		overrides.CookieMaxMonths = &val
	}

	if v.IsSet("scan.progress") {
		val := v.GetBool("scan.progress")
		overrides.Progress = &val
	}

	if v.IsSet("scan.user_agent") {
		overrides.UserAgent = v.GetString("scan.user_agent")
	}

	if v.IsSet("scan.output") {
		overrides.Output = v.GetString("scan.output")
	}

	return overrides
}

// applyConfigDefaults merges config file and environment values into cfg when
// the user did not explicitly set the corresponding flag.
func applyConfigDefaults(flags *pflag.FlagSet, v *viper.Viper, cfg *CLIConfig) {
	overrides := loadConfigOverrides(v)

	if overrides.TimeoutSecs != nil {
		applyIntDefault(flags, "timeout", *overrides.TimeoutSecs, func(v int) {
			cfg.Scan.TimeoutSecs = v
		})
	}

	if overrides.Concurrency != nil {
		applyIntDefault(flags, "concurrency", *overrides.Concurrency, func(v int) {
			cfg.Scan.Concurrency = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(flags, "rate-limit", *overrides.RateLimit, func(v int) {
			cfg.Scan.RateLimit = v
		})
	}

	if overrides.CookieMaxMonths != nil {
		cfg.Scan.CookieMaxMonths = *overrides.CookieMaxMonths
	}

	if overrides.Progress != nil {
		applyBoolDefault(flags, "progress", *overrides.Progress, func(v bool) {
			cfg.Scan.ProgressEnabled = v
		})
	}

	if overrides.UserAgent != "" {
		setStringFlagIfUnset(flags, "user-agent", overrides.UserAgent)
	}

	if overrides.Output != "" {
		setStringFlagIfUnset(flags, "output", overrides.Output)
	}
}

// validate rejects values no scan can run with.
func (c *CLIConfig) validate() error {
	if c.Verbose && c.Mute {
		return &ModeConflictError{}
	}
	s := c.Scan
	switch {
	case s.TimeoutSecs <= 0:
		return &UsageError{Err: fmt.Errorf("timeout must be positive, got %d", s.TimeoutSecs)}
	case s.Concurrency < 0:
		return &UsageError{Err: fmt.Errorf("concurrency cannot be negative, got %d", s.Concurrency)}
	case s.RateLimit < 0:
		return &UsageError{Err: fmt.Errorf("rate limit cannot be negative, got %d", s.RateLimit)}
	case s.Checks.CookieMonths < 0:
		return &UsageError{Err: fmt.Errorf("cookie lifetime threshold must be positive, got %d", s.Checks.CookieMonths)}
	case s.Checks.Cookies && s.cookieMonths() <= 0:
		return &UsageError{Err: fmt.Errorf("cookie lifetime threshold must be positive, got %d", s.cookieMonths())}
	}
	switch s.Output {
	case outputText, outputJSON, outputYAML, outputMarkdown:
	default:
		return &UsageError{Err: fmt.Errorf("unsupported output format %q (use text, json, yaml or markdown)", s.Output)}
	}
	return nil
}

// cookieMonths resolves the threshold for the cookies check.
func (s ScanRuntimeConfig) cookieMonths() int {
	if s.Checks.CookieMonths > 0 {
		return s.Checks.CookieMonths
	}
	return s.CookieMaxMonths
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
