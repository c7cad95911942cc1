package scan

import (
	"fmt"
	"strings"

	domainErrors "github.com/khanhnv2901/webcomply/internal/shared/errors"
)

// CheckName identifies one compliance check. It is the registry key of a scan.
type CheckName string

const (
	CheckNFZ         CheckName = "nfz"
	CheckSSL         CheckName = "ssl"
	CheckCookies     CheckName = "cookies"
	CheckFonts       CheckName = "fonts"
	CheckPrefetching CheckName = "prefetching"
	CheckAnalytics   CheckName = "analytics"
	CheckCDN         CheckName = "cdn"
	CheckSocial      CheckName = "social"
)

// allCheckNames is the canonical order, which is also the order the CLI registers checks in.
var allCheckNames = []CheckName{
	CheckNFZ,
	CheckSSL,
	CheckCookies,
	CheckFonts,
	CheckPrefetching,
	CheckAnalytics,
	CheckCDN,
	CheckSocial,
}

// AllCheckNames returns every known check name in canonical order.
func AllCheckNames() []CheckName {
	out := make([]CheckName, len(allCheckNames))
	copy(out, allCheckNames)
	return out
}

// ParseCheckName converts user input into a CheckName.
func ParseCheckName(s string) (CheckName, error) {
	name := CheckName(strings.ToLower(strings.TrimSpace(s)))
	if !name.Valid() {
		return "", fmt.Errorf("%w: %q", domainErrors.ErrUnknownCheck, s)
	}
	return name, nil
}

// Valid reports whether n is one of the enumerated check names.
func (n CheckName) Valid() bool {
	for _, known := range allCheckNames {
		if n == known {
			return true
		}
	}
	return false
}

func (n CheckName) String() string {
	return string(n)
}
