package scan

import (
	"net"
	"net/url"
	"strings"

	domainErrors "github.com/khanhnv2901/webcomply/internal/shared/errors"
)

// Target is the URL under scan. All fields are unexported so a Target handed
// to concurrently running checks cannot be modified by any of them.
type Target struct {
	raw    string
	scheme string
	host   string
	port   string
	path   string
	full   string
}

// NewTarget parses a target string into structured components.
// This handles various input formats:
//   - example.com
//   - http://example.com
//   - https://example.com:443/path
//   - example.com:8080
func NewTarget(raw string) (Target, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Target{}, domainErrors.ErrEmptyTarget
	}

	parsed, err := url.Parse(trimmed)
	// A missing scheme, or a "scheme" that is really a host ("example.com:8080"),
	// means the input was a bare host.
	if err != nil || parsed.Scheme == "" || strings.Contains(parsed.Scheme, ".") || parsed.Host == "" {
		parsed, err = url.Parse("http://" + trimmed)
		if err != nil {
			return Target{}, domainErrors.ErrInvalidTarget
		}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return Target{}, domainErrors.ErrInvalidTarget
	}
	if parsed.Hostname() == "" {
		return Target{}, domainErrors.ErrInvalidTarget
	}

	parsed.Scheme = scheme
	parsed.Fragment = ""

	return Target{
		raw:    trimmed,
		scheme: scheme,
		host:   strings.ToLower(parsed.Hostname()),
		port:   parsed.Port(),
		path:   parsed.Path,
		full:   parsed.String(),
	}, nil
}

// Raw returns the string the target was built from.
func (t Target) Raw() string { return t.raw }

// Scheme returns http or https.
func (t Target) Scheme() string { return t.scheme }

// Host returns the lower-cased hostname without port.
func (t Target) Host() string { return t.host }

// Port returns the explicit port, or "" when the scheme default applies.
func (t Target) Port() string { return t.port }

// Path returns the URL path.
func (t Target) Path() string { return t.path }

// String returns the normalized URL used for HTTP requests.
func (t Target) String() string { return t.full }

// IsZero reports whether t was never initialised by NewTarget.
func (t Target) IsZero() bool { return t.full == "" }

// URL returns a fresh parsed copy of the target URL. Callers may modify it freely.
func (t Target) URL() *url.URL {
	u, err := url.Parse(t.full)
	if err != nil {
		return &url.URL{Scheme: t.scheme, Host: t.host, Path: t.path}
	}
	return u
}

// TLSAddress returns the host:port a TLS handshake should dial. Explicit ports
// are only honoured for https targets; plain http targets are probed on 443.
func (t Target) TLSAddress() string {
	port := "443"
	if t.scheme == "https" && t.port != "" {
		port = t.port
	}
	return net.JoinHostPort(t.host, port)
}
