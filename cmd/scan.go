package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	scanapp "github.com/khanhnv2901/webcomply/internal/application/scan"
	"github.com/khanhnv2901/webcomply/internal/checker"
	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// websiteURLPattern accepts a host with an optional http(s) scheme and path,
// e.g. example.com or https://www.example.com/legal.
var websiteURLPattern = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// cookieFlagDefault is the value of a bare -k; it selects the configured threshold.
const cookieFlagDefault = 0

func newScanCmd() *cobra.Command {
	var selection CheckSelection

	cmd := &cobra.Command{
		Use:     "scan [url]",
		Aliases: []string{"s"},
		Short:   "Scan a website for compliance issues",
		Long: `Scan a website and report pass, fail, info or error for each enabled check.

The exit status is 0 when every check passed or was informational, 1 when at
least one check failed or could not run, and 2 on invalid usage.`,
		Example: `  webcomply scan example.com
  webcomply scan -k -a -t https://www.example.com
  webcomply scan --cookies=6 --output json example.com`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &UsageError{Err: &InvalidURLError{}}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx := getAppContext(cmd)
			cfg := appCtx.Config

			// Checks are chosen by flags only; the config file has no per-check keys.
			root := cfg.Scan.Checks
			selection.NFZ = root.NFZ
			selection.Cookies = cmd.Flags().Changed("cookies")
			cfg.Scan.Checks = selection
			if err := cfg.validate(); err != nil {
				return err
			}

			return runScan(cmd, appCtx, args[0])
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&selection.Fonts, "fonts", "f", true, "check for fonts loaded from third-party hosts")
	flags.BoolVarP(&selection.SSL, "ssl", "s", true, "check the TLS certificate")
	flags.BoolVarP(&selection.Prefetching, "prefetching", "p", false, "check for DNS prefetching to third-party hosts")
	flags.BoolVarP(&selection.Analytics, "analytics", "a", false, "check for Google Analytics and Matomo/Piwik")
	flags.BoolVarP(&selection.Social, "tracking", "t", false, "check for social media tracking and embeds")
	flags.BoolVarP(&selection.CDN, "cdn", "c", false, "check for assets served from public CDNs")
	flags.IntVarP(&selection.CookieMonths, "cookies", "k", cookieFlagDefault, "check cookie lifetimes against a month threshold (13 months when no value is given)")
	flags.Lookup("cookies").NoOptDefVal = strconv.Itoa(cookieFlagDefault)

	return cmd
}

// validateWebsiteURL rejects anything that does not look like a website address.
func validateWebsiteURL(raw string) (scan.Target, error) {
	trimmed := strings.TrimSpace(raw)
	if !websiteURLPattern.MatchString(strings.ToLower(trimmed)) {
		return scan.Target{}, &InvalidURLError{URL: raw}
	}
	target, err := scan.NewTarget(trimmed)
	if err != nil {
		return scan.Target{}, &InvalidURLError{URL: raw}
	}
	return target, nil
}

// selectedChecks returns the enabled checks in registration order.
func selectedChecks(s CheckSelection) []scan.CheckName {
	enabled := map[scan.CheckName]bool{
		scan.CheckNFZ:         s.NFZ,
		scan.CheckSSL:         s.SSL,
		scan.CheckCookies:     s.Cookies,
		scan.CheckFonts:       s.Fonts,
		scan.CheckPrefetching: s.Prefetching,
		scan.CheckAnalytics:   s.Analytics,
		scan.CheckCDN:         s.CDN,
		scan.CheckSocial:      s.Social,
	}
	var names []scan.CheckName
	for _, name := range scan.AllCheckNames() {
		if enabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// checkerFactory builds the checkers for a scan. Tests replace it.
var checkerFactory = checker.NewFactory

func runScan(cmd *cobra.Command, appCtx *AppContext, rawURL string) error {
	target, err := validateWebsiteURL(rawURL)
	if err != nil {
		return err
	}

	runtimeCfg := appCtx.Config.Scan
	logger := appCtx.Logger
	timeout := time.Duration(runtimeCfg.TimeoutSecs) * time.Second
	names := selectedChecks(runtimeCfg.Checks)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			if appCtx.Mode != modeSilent {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s Received %s, cancelling unfinished checks...\n", colorWarn("!"), sig.String())
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := []scanapp.Option{
		scanapp.WithTimeout(timeout),
		scanapp.WithConcurrency(runtimeCfg.Concurrency),
		scanapp.WithRateLimit(runtimeCfg.RateLimit),
		scanapp.WithLogger(logger),
		scanapp.WithFactory(checkerFactory(checker.Options{
			Timeout:         timeout,
			UserAgent:       runtimeCfg.UserAgent,
			CookieMaxMonths: runtimeCfg.cookieMonths(),
		})),
	}

	var progress *progressPrinter
	if runtimeCfg.ProgressEnabled && appCtx.Mode != modeSilent {
		progress = newProgressPrinter(cmd.ErrOrStderr(), len(names), "scan")
		opts = append(opts, scanapp.WithObserver(progress.Observe))
	}

	printer := newReportPrinter(cmd.OutOrStdout(), appCtx.Mode, runtimeCfg.Output)
	orch := scanapp.New(target, printer, opts...)
	for _, name := range names {
		if err := orch.Register(name); err != nil {
			return err
		}
	}

	logger.Debug("starting scan",
		zap.String("target", target.String()),
		zap.Stringers("checks", names))

	if progress != nil && len(names) > 0 {
		progress.Start()
	}
	report, err := orch.Run(ctx)
	if progress != nil && len(names) > 0 {
		progress.Stop()
	}
	if err != nil {
		return err
	}

	if report.HasFailures() {
		return &ExitError{Code: ExitFailures}
	}
	return nil
}
