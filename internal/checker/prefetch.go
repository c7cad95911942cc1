package checker

import (
	"context"
	"net/http"
	"strings"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// prefetchRels are resource hints that make the browser contact a host
// before the visitor asked for anything from it.
var prefetchRels = []string{"dns-prefetch", "preconnect", "prefetch", "prerender"}

// PrefetchHint is one resource hint pointing to a third-party host.
type PrefetchHint struct {
	Rel  string `json:"rel" yaml:"rel"`
	Host string `json:"host" yaml:"host"`
}

// PrefetchChecker fails when the page asks the browser to resolve or
// connect to third-party hosts ahead of time.
type PrefetchChecker struct {
	Client    *http.Client
	UserAgent string
}

// Check fetches the target and inspects resource hints and the
// X-DNS-Prefetch-Control header.
func (c *PrefetchChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	page, err := fetchPage(ctx, c.Client, target, c.UserAgent)
	if err != nil {
		return scan.ErrorResult(scan.CheckPrefetching, err)
	}

	control := strings.ToLower(strings.TrimSpace(page.Header.Get("X-DNS-Prefetch-Control")))
	hints := FindPrefetchHints(page, target)

	if len(hints) > 0 {
		hosts := stringSet{}
		for _, h := range hints {
			hosts.add(h.Host)
		}
		return scan.Fail(scan.CheckPrefetching, "DNS prefetching to third-party hosts: %s", strings.Join(hosts.sorted(), ", ")).
			WithDetail("hints", hints).
			WithDetail("x_dns_prefetch_control", control)
	}

	switch control {
	case "on":
		return scan.Info(scan.CheckPrefetching, "X-DNS-Prefetch-Control enables browser DNS prefetching for links on the page").
			WithDetail("x_dns_prefetch_control", control)
	case "off":
		return scan.Pass(scan.CheckPrefetching, "DNS prefetching disabled by X-DNS-Prefetch-Control").
			WithDetail("x_dns_prefetch_control", control)
	}
	return scan.Pass(scan.CheckPrefetching, "no DNS prefetch hints to third-party hosts")
}

// Name returns the name of this checker
func (c *PrefetchChecker) Name() scan.CheckName {
	return scan.CheckPrefetching
}

// FindPrefetchHints returns resource hints on page that target third-party hosts.
func FindPrefetchHints(page *Page, target scan.Target) []PrefetchHint {
	seen := stringSet{}
	var hints []PrefetchHint
	for _, link := range page.Links {
		for _, rel := range prefetchRels {
			if !link.HasRel(rel) {
				continue
			}
			host, external := thirdPartyHost(link.Href, target)
			if !external {
				continue
			}
			key := rel + " " + host
			if _, dup := seen[key]; dup {
				continue
			}
			seen.add(key)
			hints = append(hints, PrefetchHint{Rel: rel, Host: host})
		}
	}
	return hints
}
