package constants

import (
	"time"
)

const (
	// DefaultCheckTimeout is the per-check deadline when neither flag nor config sets one.
	DefaultCheckTimeout = 10 * time.Second
	// DefaultCookieMaxMonths is the lifetime threshold used when -k is given without a value.
	DefaultCookieMaxMonths = 13
	// DefaultUserAgent identifies scanner requests in target access logs.
	DefaultUserAgent = "webcomply/1.0 (+https://github.com/khanhnv2901/webcomply)"
)

const (
	// MaxPageBodyBytes caps how much of a page body the content checks parse.
	MaxPageBodyBytes = 2 * 1024 * 1024
	// TLSSoonExpiryWindow warns operators when a certificate expires inside this window.
	TLSSoonExpiryWindow = 14 * 24 * time.Hour
)
