package checker

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// Analytics providers reported by the analytics check.
const (
	providerGoogleAnalytics  = "Google Analytics"
	providerGoogleTagManager = "Google Tag Manager"
	providerMatomo           = "Matomo/Piwik"
)

// analyticsScriptRule matches a script URL by host and optional path fragment.
type analyticsScriptRule struct {
	provider string
	domain   string
	path     string
}

var analyticsScriptRules = []analyticsScriptRule{
	{provider: providerGoogleAnalytics, domain: "google-analytics.com"},
	{provider: providerGoogleAnalytics, domain: "googletagmanager.com", path: "/gtag/js"},
	{provider: providerGoogleTagManager, domain: "googletagmanager.com", path: "/gtm.js"},
	{provider: providerGoogleAnalytics, domain: "analytics.google.com"},
}

var analyticsScriptFiles = map[string]string{
	"piwik.js":  providerMatomo,
	"matomo.js": providerMatomo,
}

// analyticsInlinePatterns detect tracking snippets and IDs in inline scripts.
var analyticsInlinePatterns = []struct {
	provider string
	pattern  *regexp.Regexp
	isID     bool
}{
	{provider: providerGoogleAnalytics, pattern: regexp.MustCompile(`\bUA-\d{4,10}-\d{1,4}\b`), isID: true},
	{provider: providerGoogleAnalytics, pattern: regexp.MustCompile(`\bG-[A-Z0-9]{8,12}\b`), isID: true},
	{provider: providerGoogleTagManager, pattern: regexp.MustCompile(`\bGTM-[A-Z0-9]{4,8}\b`), isID: true},
	{provider: providerGoogleAnalytics, pattern: regexp.MustCompile(`\bgtag\s*\(\s*['"]config['"]`)},
	{provider: providerGoogleAnalytics, pattern: regexp.MustCompile(`\bga\s*\(\s*['"]create['"]`)},
	{provider: providerMatomo, pattern: regexp.MustCompile(`_paq\.push\s*\(`)},
}

// AnalyticsFindings lists the analytics providers and tracking IDs on a page.
type AnalyticsFindings struct {
	Providers []string
	IDs       []string
}

// AnalyticsChecker reports Google Analytics (fail) and Matomo/Piwik (info).
type AnalyticsChecker struct {
	Client    *http.Client
	UserAgent string
}

// Check fetches the target and looks for analytics scripts and snippets.
func (c *AnalyticsChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	page, err := fetchPage(ctx, c.Client, target, c.UserAgent)
	if err != nil {
		return scan.ErrorResult(scan.CheckAnalytics, err)
	}

	found := FindAnalytics(page)
	if len(found.Providers) == 0 {
		return scan.Pass(scan.CheckAnalytics, "no Google Analytics or Matomo/Piwik tracking found")
	}

	var result scan.Result
	if found.onlyMatomo() {
		result = scan.Info(scan.CheckAnalytics, "Matomo/Piwik analytics found; it is consent-exempt only when self-hosted and configured for audience measurement")
	} else {
		result = scan.Fail(scan.CheckAnalytics, "analytics tracking found: %s", strings.Join(found.Providers, ", "))
	}

	result = result.WithDetail("providers", found.Providers)
	if len(found.IDs) > 0 {
		result = result.WithDetail("tracking_ids", found.IDs)
	}
	return result
}

// Name returns the name of this checker
func (c *AnalyticsChecker) Name() scan.CheckName {
	return scan.CheckAnalytics
}

// FindAnalytics inspects script sources and inline scripts of page.
func FindAnalytics(page *Page) AnalyticsFindings {
	providers, ids := stringSet{}, stringSet{}

	for _, src := range page.Scripts {
		host := hostOf(src)
		for _, rule := range analyticsScriptRules {
			if hostMatches(host, rule.domain) && (rule.path == "" || strings.Contains(src, rule.path)) {
				providers.add(rule.provider)
			}
		}
		lower := strings.ToLower(src)
		if i := strings.IndexAny(lower, "?#"); i >= 0 {
			lower = lower[:i]
		}
		for file, provider := range analyticsScriptFiles {
			if strings.HasSuffix(lower, "/"+file) {
				providers.add(provider)
			}
		}
	}

	for _, script := range page.InlineScripts {
		for _, p := range analyticsInlinePatterns {
			matches := p.pattern.FindAllString(script, -1)
			if len(matches) == 0 {
				continue
			}
			providers.add(p.provider)
			if p.isID {
				for _, m := range matches {
					ids.add(m)
				}
			}
		}
	}

	return AnalyticsFindings{Providers: providers.sorted(), IDs: ids.sorted()}
}

func (f AnalyticsFindings) onlyMatomo() bool {
	for _, p := range f.Providers {
		if p != providerMatomo {
			return false
		}
	}
	return len(f.Providers) > 0
}
