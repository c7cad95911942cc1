package cmd

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"

	"github.com/khanhnv2901/webcomply/internal/checker"
	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// stubCheck returns a fixed status without touching the network.
type stubCheck struct {
	name   scan.CheckName
	status scan.Status
}

func (s stubCheck) Check(ctx context.Context, target scan.Target) scan.Result {
	return scan.NewResult(s.name, s.status, "stubbed %s for %s", s.status, target.Host())
}

func (s stubCheck) Name() scan.CheckName {
	return s.name
}

// stubFactory records the options the scan command builds checkers with.
type stubFactory struct {
	mu       sync.Mutex
	statuses map[scan.CheckName]scan.Status
	opts     checker.Options
	built    []scan.CheckName
}

func (f *stubFactory) factory(opts checker.Options) checker.Factory {
	f.mu.Lock()
	f.opts = opts
	f.mu.Unlock()
	return func(name scan.CheckName) (checker.Checker, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.built = append(f.built, name)
		status, ok := f.statuses[name]
		if !ok {
			status = scan.StatusPass
		}
		return stubCheck{name: name, status: status}, nil
	}
}

// useStubCheckers replaces the real checkers for the duration of the test.
func useStubCheckers(t *testing.T, statuses map[scan.CheckName]scan.Status) *stubFactory {
	t.Helper()
	stub := &stubFactory{statuses: statuses}
	original := checkerFactory
	checkerFactory = stub.factory
	t.Cleanup(func() {
		checkerFactory = original
	})
	return stub
}

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

// isolateHome points HOME and XDG_CONFIG_HOME at fresh temp dirs so no user
// config leaks into a test. It returns the HOME dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	homedir.DisableCache = true
	xdg.Reload()
	t.Cleanup(func() {
		homedir.DisableCache = false
		homedir.Reset()
		xdg.Reload()
	})
	return home
}

// executeCommand runs a fresh command tree with an isolated HOME and returns
// stdout, stderr and the exit code.
func executeCommand(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	isolateHome(t)
	disableColor(t)

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	code := run(root, args)
	return stdout.String(), stderr.String(), code
}
