package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type outputMode int

const (
	modeNormal outputMode = iota
	modeVerbose
	modeSilent
)

func (m outputMode) String() string {
	switch m {
	case modeVerbose:
		return "verbose"
	case modeSilent:
		return "silent"
	default:
		return "normal"
	}
}

// AppContext holds the per-invocation state built before a command runs.
type AppContext struct {
	Logger *zap.Logger
	Config *CLIConfig
	Mode   outputMode
}

type appContextKey struct{}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if ctx := cmd.Context(); ctx != nil {
		if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok && appCtx != nil {
			return appCtx
		}
	}
	return &AppContext{Logger: zap.NewNop(), Config: newCLIConfig()}
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cfg := newCLIConfig()
	var cfgFile string

	root := &cobra.Command{
		Use:   "webcomply",
		Short: "Check a website against GDPR and French compliance rules",
		Long: `webcomply scans a website and reports whether it complies with common
GDPR expectations: valid TLS, cookie lifetimes, third-party fonts, DNS
prefetching, analytics, public CDNs and social media trackers.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := readConfig(v, cfgFile); err != nil {
				return err
			}
			applyConfigDefaults(cmd.Flags(), v, cfg)

			if err := cfg.validate(); err != nil {
				return err
			}

			mode := modeNormal
			switch {
			case cfg.Verbose:
				mode = modeVerbose
			case cfg.Mute:
				mode = modeSilent
			}

			logger := newLogger(cmd.ErrOrStderr(), mode)
			if used := v.ConfigFileUsed(); used != "" {
				logger.Debug("config loaded", zap.String("file", used))
			}

			storeAppContext(cmd, &AppContext{Logger: logger, Config: cfg, Mode: mode})
			return nil
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.webcomply.yaml or $XDG_CONFIG_HOME/webcomply/config.yaml)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output: details, durations and debug logs")
	flags.BoolVarP(&cfg.Mute, "mute", "m", false, "mute all output; only the exit code reports the outcome")
	flags.BoolVarP(&cfg.Scan.Checks.NFZ, "nfz", "z", cfg.Scan.Checks.NFZ, "include the NF Z67-147 procedure note")
	flags.StringVarP(&cfg.Scan.Output, "output", "o", cfg.Scan.Output, "report format: text, json, yaml or markdown")
	flags.IntVar(&cfg.Scan.TimeoutSecs, "timeout", cfg.Scan.TimeoutSecs, "per-check timeout in seconds")
	flags.IntVar(&cfg.Scan.Concurrency, "concurrency", cfg.Scan.Concurrency, "max checks in flight (0 runs all at once)")
	flags.IntVar(&cfg.Scan.RateLimit, "rate-limit", cfg.Scan.RateLimit, "max check dispatches per second (0 is unlimited)")
	flags.StringVar(&cfg.Scan.UserAgent, "user-agent", cfg.Scan.UserAgent, "User-Agent header sent by content checks")
	flags.BoolVar(&cfg.Scan.ProgressEnabled, "progress", cfg.Scan.ProgressEnabled, "display live progress on stderr")

	root.AddCommand(newScanCmd())
	root.AddCommand(newChecksCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// newLogger writes human-readable logs to w: warnings by default, everything
// in verbose mode and nothing in silent mode.
func newLogger(w io.Writer, mode outputMode) *zap.Logger {
	if mode == modeSilent {
		return zap.NewNop()
	}
	level := zapcore.WarnLevel
	if mode == modeVerbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Err: fmt.Errorf("%s accepts no arguments, got %q", cmd.CommandPath(), args)}
	}
	return nil
}

// Execute runs the root command and exits with the mapped status code.
func Execute() {
	os.Exit(run(rootCmd, os.Args[1:]))
}

func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if shouldPrintError(err) {
		fmt.Fprintf(root.ErrOrStderr(), "%s %v\n", colorError("error:"), err)
	}
	return exitCodeFor(err)
}
