package checker

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// fontServiceDomains are hosted font services. Any request to them discloses
// the visitor's IP address to the provider.
var fontServiceDomains = []string{
	"fonts.googleapis.com",
	"fonts.gstatic.com",
	"use.typekit.net",
	"p.typekit.net",
	"fast.fonts.net",
	"use.fontawesome.com",
	"kit.fontawesome.com",
	"fonts.bunny.net",
	"cloud.typography.com",
}

var fontExtensions = map[string]struct{}{
	".woff":  {},
	".woff2": {},
	".ttf":   {},
	".otf":   {},
	".eot":   {},
}

var (
	cssURLPattern    = regexp.MustCompile(`(?i)url\(\s*['"]?([^'")\s]+)['"]?\s*\)`)
	cssImportPattern = regexp.MustCompile(`(?i)@import\s+['"]([^'"]+)['"]`)
)

// FontChecker fails when the page loads fonts from third-party hosts.
type FontChecker struct {
	Client    *http.Client
	UserAgent string
}

// Check fetches the target and looks for externally hosted fonts in link
// tags, scripts and inline stylesheets.
func (c *FontChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	page, err := fetchPage(ctx, c.Client, target, c.UserAgent)
	if err != nil {
		return scan.ErrorResult(scan.CheckFonts, err)
	}

	hosts, urls := FindExternalFonts(page, target)
	if len(hosts) == 0 {
		return scan.Pass(scan.CheckFonts, "no fonts loaded from third-party hosts")
	}

	return scan.Fail(scan.CheckFonts, "fonts loaded from third-party hosts: %s", strings.Join(hosts, ", ")).
		WithDetail("hosts", hosts).
		WithDetail("urls", urls)
}

// Name returns the name of this checker
func (c *FontChecker) Name() scan.CheckName {
	return scan.CheckFonts
}

// FindExternalFonts returns the sorted third-party hosts and URLs serving fonts to page.
func FindExternalFonts(page *Page, target scan.Target) (hosts []string, urls []string) {
	hostSet, urlSet := stringSet{}, stringSet{}
	record := func(raw string, fontHint bool) {
		host, external := thirdPartyHost(raw, target)
		if !external {
			return
		}
		if _, known := matchDomain(host, fontServiceDomains); known || fontHint || isFontFile(raw) {
			hostSet.add(host)
			urlSet.add(raw)
		}
	}

	for _, link := range page.Links {
		switch {
		case link.HasRel("stylesheet"):
			if _, known := matchDomain(hostOf(link.Href), fontServiceDomains); known {
				record(link.Href, true)
			}
		case link.HasRel("preload") || link.HasRel("prefetch"):
			record(link.Href, link.As == "font")
		}
	}

	for _, src := range page.Scripts {
		if _, known := matchDomain(hostOf(src), fontServiceDomains); known {
			record(src, true)
		}
	}

	for _, css := range page.Styles {
		for _, m := range cssImportPattern.FindAllStringSubmatch(css, -1) {
			if resolved := page.resolve(m[1]); resolved != "" {
				if _, known := matchDomain(hostOf(resolved), fontServiceDomains); known {
					record(resolved, true)
				}
			}
		}
		for _, m := range cssURLPattern.FindAllStringSubmatch(css, -1) {
			if resolved := page.resolve(m[1]); resolved != "" {
				record(resolved, false)
			}
		}
	}

	return hostSet.sorted(), urlSet.sorted()
}

func isFontFile(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	_, ok := fontExtensions[strings.ToLower(path.Ext(u.Path))]
	return ok
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
