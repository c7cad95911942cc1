package checker

import (
	"context"
	"net/http"
	"strings"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// publicCDNDomains serve shared libraries to many unrelated sites.
var publicCDNDomains = []string{
	"cdnjs.cloudflare.com",
	"cdn.jsdelivr.net",
	"unpkg.com",
	"ajax.googleapis.com",
	"code.jquery.com",
	"maxcdn.bootstrapcdn.com",
	"stackpath.bootstrapcdn.com",
	"cdn.bootcdn.net",
	"ajax.aspnetcdn.com",
	"cdn.tailwindcss.com",
	"cloudfront.net",
	"akamaihd.net",
	"akamaized.net",
	"fastly.net",
	"azureedge.net",
	"b-cdn.net",
	"cdn.statically.io",
}

// cdnHeaderFingerprints identify the CDN fronting the target itself.
var cdnHeaderFingerprints = []struct {
	provider string
	header   string
	contains string
}{
	{provider: "Cloudflare", header: "CF-Ray"},
	{provider: "Cloudflare", header: "Server", contains: "cloudflare"},
	{provider: "Amazon CloudFront", header: "X-Amz-Cf-Id"},
	{provider: "Fastly", header: "X-Fastly-Request-Id"},
	{provider: "Fastly", header: "X-Served-By", contains: "cache-"},
	{provider: "Akamai", header: "Server", contains: "akamaighost"},
	{provider: "Akamai", header: "X-Akamai-Transformed"},
	{provider: "Azure Front Door", header: "X-Azure-Ref"},
	{provider: "BunnyCDN", header: "Server", contains: "bunnycdn"},
}

// CDNChecker fails when the page pulls assets from public CDNs and reports
// the CDN the site is served through as information.
type CDNChecker struct {
	Client    *http.Client
	UserAgent string
}

// Check fetches the target and classifies asset hosts and response headers.
func (c *CDNChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	page, err := fetchPage(ctx, c.Client, target, c.UserAgent)
	if err != nil {
		return scan.ErrorResult(scan.CheckCDN, err)
	}

	hosts, assets := FindCDNAssets(page, target)
	fronting := DetectCDNProvider(page.Header)

	var result scan.Result
	switch {
	case len(hosts) > 0:
		result = scan.Fail(scan.CheckCDN, "assets loaded from public CDNs: %s", strings.Join(hosts, ", ")).
			WithDetail("hosts", hosts).
			WithDetail("assets", assets)
	case fronting != "":
		result = scan.Info(scan.CheckCDN, "site is served through %s; no third-party CDN assets found", fronting)
	default:
		return scan.Pass(scan.CheckCDN, "no assets loaded from public CDNs")
	}

	if fronting != "" {
		result = result.WithDetail("served_by", fronting)
	}
	return result
}

// Name returns the name of this checker
func (c *CDNChecker) Name() scan.CheckName {
	return scan.CheckCDN
}

// FindCDNAssets returns the sorted third-party CDN hosts and asset URLs used by page.
func FindCDNAssets(page *Page, target scan.Target) (hosts []string, assets []string) {
	hostSet, assetSet := stringSet{}, stringSet{}
	for _, asset := range page.Assets() {
		host, external := thirdPartyHost(asset, target)
		if !external {
			continue
		}
		if _, ok := matchDomain(host, publicCDNDomains); ok {
			hostSet.add(host)
			assetSet.add(asset)
		}
	}
	return hostSet.sorted(), assetSet.sorted()
}

// DetectCDNProvider names the CDN fronting a response, or "" if none is recognised.
func DetectCDNProvider(h http.Header) string {
	if h == nil {
		return ""
	}
	for _, fp := range cdnHeaderFingerprints {
		value := h.Get(fp.header)
		if value == "" {
			continue
		}
		if fp.contains == "" || strings.Contains(strings.ToLower(value), fp.contains) {
			return fp.provider
		}
	}
	return ""
}
