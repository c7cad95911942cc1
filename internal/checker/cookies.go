package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// CookieFinding describes the lifetime of one cookie set by the target.
type CookieFinding struct {
	Name              string     `json:"name" yaml:"name"`
	Session           bool       `json:"session" yaml:"session"`
	Expires           *time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
	LifetimeMonths    int        `json:"lifetime_months" yaml:"lifetime_months"`
	ExceedsPolicy     bool       `json:"exceeds_policy" yaml:"exceeds_policy"`
	OriginalSetCookie string     `json:"set_cookie,omitempty" yaml:"set_cookie,omitempty"`
}

func (f CookieFinding) String() string {
	switch {
	case f.Session:
		return f.Name + " (session)"
	case f.ExceedsPolicy:
		return fmt.Sprintf("%s (%d months, exceeds policy)", f.Name, f.LifetimeMonths)
	default:
		return fmt.Sprintf("%s (%d months)", f.Name, f.LifetimeMonths)
	}
}

// CookieChecker fails when the target sets cookies that outlive MaxMonths.
type CookieChecker struct {
	Client    *http.Client
	UserAgent string
	MaxMonths int
	Now       func() time.Time
}

// Check fetches the target and inspects every Set-Cookie header.
func (c *CookieChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	if c.MaxMonths <= 0 {
		return scan.ErrorResult(scan.CheckCookies, errors.New("cookie lifetime threshold is not configured"))
	}

	page, err := fetchPage(ctx, c.Client, target, c.UserAgent)
	if err != nil {
		return scan.ErrorResult(scan.CheckCookies, err)
	}

	ref := page.Date
	if ref.IsZero() {
		if c.Now != nil {
			ref = c.Now()
		} else {
			ref = time.Now()
		}
	}

	findings := AnalyzeCookies(page.SetCookies, ref, c.MaxMonths)
	if len(findings) == 0 {
		return scan.Pass(scan.CheckCookies, "no cookies set by %s", target.Host()).
			WithDetail("max_months", c.MaxMonths)
	}

	var offenders []CookieFinding
	for _, f := range findings {
		if f.ExceedsPolicy {
			offenders = append(offenders, f)
		}
	}

	var result scan.Result
	switch len(offenders) {
	case 0:
		result = scan.Pass(scan.CheckCookies, "%d cookie(s) within the %d-month policy", len(findings), c.MaxMonths)
	case 1:
		result = scan.Fail(scan.CheckCookies, "cookie %q lifetime %d months exceeds %d-month policy",
			offenders[0].Name, offenders[0].LifetimeMonths, c.MaxMonths)
	default:
		names := make([]string, 0, len(offenders))
		for _, f := range offenders {
			names = append(names, fmt.Sprintf("%s (%d months)", f.Name, f.LifetimeMonths))
		}
		result = scan.Fail(scan.CheckCookies, "%d cookies exceed the %d-month policy: %s",
			len(offenders), c.MaxMonths, strings.Join(names, ", "))
	}

	return result.
		WithDetail("max_months", c.MaxMonths).
		WithDetail("cookies", findings)
}

// Name returns the name of this checker
func (c *CookieChecker) Name() scan.CheckName {
	return scan.CheckCookies
}

// maxCookieLifetimeDays caps Max-Age so the expiry stays representable.
const maxCookieLifetimeDays = 1000 * 366

// AnalyzeCookies parses each Set-Cookie line and computes the cookie's
// lifetime relative to ref. Malformed lines are skipped. Max-Age takes
// precedence over Expires; cookies being deleted (Max-Age <= 0 or an Expires
// in the past) are skipped.
func AnalyzeCookies(setCookies []string, ref time.Time, maxMonths int) []CookieFinding {
	if len(setCookies) == 0 {
		return nil
	}

	limit := ref.AddDate(0, maxMonths, 0)
	findings := make([]CookieFinding, 0, len(setCookies))
	for _, line := range setCookies {
		cookie, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		finding := CookieFinding{Name: cookie.Name, OriginalSetCookie: line}

		var expires time.Time
		switch {
		case cookie.MaxAge > 0:
			expires = expiryFromMaxAge(ref, cookie.MaxAge)
		case cookie.MaxAge < 0:
			continue
		case !cookie.Expires.IsZero():
			if !cookie.Expires.After(ref) {
				continue
			}
			expires = cookie.Expires
		default:
			finding.Session = true
			findings = append(findings, finding)
			continue
		}

		finding.Expires = &expires
		finding.LifetimeMonths = monthsBetween(ref, expires)
		finding.ExceedsPolicy = expires.After(limit)
		findings = append(findings, finding)
	}
	return findings
}

// expiryFromMaxAge adds maxAge seconds to ref in whole days plus a remainder,
// so values beyond the range of time.Duration do not wrap around.
func expiryFromMaxAge(ref time.Time, maxAge int) time.Time {
	const secondsPerDay = 24 * 60 * 60
	days, rem := maxAge/secondsPerDay, maxAge%secondsPerDay
	if days >= maxCookieLifetimeDays {
		return ref.AddDate(0, 0, maxCookieLifetimeDays)
	}
	return ref.AddDate(0, 0, days).Add(time.Duration(rem) * time.Second)
}

// monthsBetween counts whole calendar months from start to end.
func monthsBetween(start, end time.Time) int {
	start, end = start.UTC(), end.UTC()
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
