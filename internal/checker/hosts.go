package checker

import (
	"net"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// registrableDomain returns the eTLD+1 of host, or host itself for IPs and
// names the public suffix list cannot reduce (localhost, bare TLDs).
func registrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// thirdPartyHost returns the host of rawURL and whether it belongs to a
// different registrable domain than the target.
func thirdPartyHost(rawURL string, target scan.Target) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return host, registrableDomain(host) != registrableDomain(target.Host())
}

// hostMatches reports whether host equals domain or is one of its subdomains.
func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// matchDomain returns the first domain in domains that host falls under.
func matchDomain(host string, domains []string) (string, bool) {
	for _, d := range domains {
		if hostMatches(host, d) {
			return d, true
		}
	}
	return "", false
}

// stringSet collects unique strings and returns them sorted.
type stringSet map[string]struct{}

func (s stringSet) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
