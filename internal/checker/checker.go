package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"time"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
	consts "github.com/khanhnv2901/webcomply/internal/shared/constants"
	domainErrors "github.com/khanhnv2901/webcomply/internal/shared/errors"
)

// Checker is the interface that all check implementations must satisfy
type Checker interface {
	// Check inspects one aspect of the target and always returns exactly one result.
	Check(ctx context.Context, target scan.Target) scan.Result

	// Name returns the registry key of this checker
	Name() scan.CheckName
}

// Options carries the caller-supplied settings shared by every checker of a scan.
type Options struct {
	Timeout         time.Duration
	UserAgent       string
	CookieMaxMonths int
	HTTPClient      *http.Client
	RootCAs         *x509.CertPool
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = consts.DefaultCheckTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = consts.DefaultUserAgent
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// httpClient returns the injected client or a fresh one. Every checker gets
// its own client so no connection state is shared between checks.
func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{
		Timeout: o.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: false,
				MinVersion:         tls.VersionTLS12,
				RootCAs:            o.RootCAs,
			},
		},
	}
}

// registry is the fixed dispatch table from check name to constructor.
var registry = map[scan.CheckName]func(Options) Checker{
	scan.CheckNFZ: func(o Options) Checker {
		return &NFZChecker{Now: o.Now}
	},
	scan.CheckSSL: func(o Options) Checker {
		return &SSLChecker{Timeout: o.Timeout, RootCAs: o.RootCAs, Now: o.Now}
	},
	scan.CheckCookies: func(o Options) Checker {
		return &CookieChecker{Client: o.httpClient(), UserAgent: o.UserAgent, MaxMonths: o.CookieMaxMonths, Now: o.Now}
	},
	scan.CheckFonts: func(o Options) Checker {
		return &FontChecker{Client: o.httpClient(), UserAgent: o.UserAgent}
	},
	scan.CheckPrefetching: func(o Options) Checker {
		return &PrefetchChecker{Client: o.httpClient(), UserAgent: o.UserAgent}
	},
	scan.CheckAnalytics: func(o Options) Checker {
		return &AnalyticsChecker{Client: o.httpClient(), UserAgent: o.UserAgent}
	},
	scan.CheckCDN: func(o Options) Checker {
		return &CDNChecker{Client: o.httpClient(), UserAgent: o.UserAgent}
	},
	scan.CheckSocial: func(o Options) Checker {
		return &SocialChecker{Client: o.httpClient(), UserAgent: o.UserAgent}
	},
}

// New returns a fresh checker for name.
func New(name scan.CheckName, opts Options) (Checker, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownCheck, name)
	}
	return build(opts.withDefaults()), nil
}

// Factory builds checkers by name. NewFactory binds New to one set of options.
type Factory func(name scan.CheckName) (Checker, error)

// NewFactory returns a Factory that builds checkers with opts.
func NewFactory(opts Options) Factory {
	return func(name scan.CheckName) (Checker, error) {
		return New(name, opts)
	}
}
