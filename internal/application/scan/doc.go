// Package scan runs the enabled compliance checks against one target.
//
// An Orchestrator is bound to a target and a Reporter. Checks are enabled one
// at a time with Register, then Run executes all of them concurrently, each
// under its own deadline, and hands a sealed report to the Reporter:
//
//	orch := scan.New(target, reporter, scan.WithTimeout(10*time.Second))
//	_ = orch.Register(domain.CheckSSL)
//	_ = orch.Register(domain.CheckCookies)
//	report, err := orch.Run(ctx)
//
// A check that panics, times out or is cancelled still contributes exactly one
// result with status error. Results are ordered by registration, not by
// completion. Misuse (duplicate registration, an empty registry, a second Run)
// is reported synchronously and wraps errors.ErrConfiguration.
package scan
