package checker

import (
	"context"
	"time"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// nfzProcedure lists the preliminary steps NF Z67-147 requires before a
// website report can be used as evidence.
var nfzProcedure = []string{
	"describe the hardware, operating system and browser used, with versions",
	"disable any proxy and record the network path to the site (public IP, traceroute)",
	"synchronise the system clock and record the date and time of the report",
	"purge browser cache, cookies and history before the first visit",
	"record every visited URL and keep dated screenshots of each page",
}

// NFZChecker emits the French NF Z67-147 operating procedure for the target.
// It performs no network access.
type NFZChecker struct {
	Now func() time.Time
}

// Check returns an informational result describing the procedure.
func (c *NFZChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	steps := make([]string, len(nfzProcedure))
	copy(steps, nfzProcedure)

	return scan.Info(scan.CheckNFZ,
		"NF Z67-147: a legally admissible report of %s must be drawn up following the standard's operating procedure", target.Host()).
		WithDetail("standard", "NF Z67-147").
		WithDetail("target", target.String()).
		WithDetail("observed_at", now().UTC().Format(time.RFC3339)).
		WithDetail("procedure", steps)
}

// Name returns the name of this checker
func (c *NFZChecker) Name() scan.CheckName {
	return scan.CheckNFZ
}
