package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/khanhnv2901/webcomply/internal/checker"
	"github.com/khanhnv2901/webcomply/internal/domain/scan"
	consts "github.com/khanhnv2901/webcomply/internal/shared/constants"
	domainErrors "github.com/khanhnv2901/webcomply/internal/shared/errors"
)

// State is the lifecycle stage of an Orchestrator.
type State int

const (
	StateRegistering State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRegistering:
		return "registering"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reporter receives the sealed report once every check has finished.
type Reporter interface {
	Report(report *scan.Report) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(report *scan.Report) error

// Report calls f(report).
func (f ReporterFunc) Report(report *scan.Report) error {
	return f(report)
}

// Observer is called from the goroutine running Run each time a check
// finishes, in completion order.
type Observer func(result scan.Result)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the per-check deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithConcurrency caps the number of checks in flight. Zero runs all at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.concurrency = n
		}
	}
}

// WithRateLimit caps check dispatches per second. Zero disables the limit.
func WithRateLimit(perSecond int) Option {
	return func(o *Orchestrator) {
		if perSecond >= 0 {
			o.rateLimit = perSecond
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFactory replaces the dispatch table used by Register.
func WithFactory(factory checker.Factory) Option {
	return func(o *Orchestrator) {
		o.factory = factory
	}
}

// WithCheckOptions builds checkers from the default dispatch table with opts.
func WithCheckOptions(opts checker.Options) Option {
	return func(o *Orchestrator) {
		o.factory = checker.NewFactory(opts)
	}
}

// WithObserver installs a completion hook.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

type entry struct {
	name  scan.CheckName
	check checker.Checker
}

type checkReturn struct {
	result   scan.Result
	panicked any
}

type outcome struct {
	index  int
	result scan.Result
}

// Orchestrator owns the checks enabled for one scan of one target.
type Orchestrator struct {
	target   scan.Target
	reporter Reporter

	timeout     time.Duration
	concurrency int
	rateLimit   int
	logger      *zap.Logger
	factory     checker.Factory
	observer    Observer

	mu      sync.Mutex
	state   State
	entries []entry
	names   map[scan.CheckName]struct{}
}

// New creates an orchestrator bound to target. reporter may be nil.
func New(target scan.Target, reporter Reporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		target:   target,
		reporter: reporter,
		timeout:  consts.DefaultCheckTimeout,
		logger:   zap.NewNop(),
		names:    make(map[scan.CheckName]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.factory == nil {
		o.factory = checker.NewFactory(checker.Options{Timeout: o.timeout})
	}
	return o
}

// Target returns the target the orchestrator is bound to.
func (o *Orchestrator) Target() scan.Target {
	return o.target
}

// State returns the current lifecycle stage.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Registered returns the enabled check names in registration order.
func (o *Orchestrator) Registered() []scan.CheckName {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]scan.CheckName, len(o.entries))
	for i, e := range o.entries {
		names[i] = e.name
	}
	return names
}

// Register enables the check called name.
func (o *Orchestrator) Register(name scan.CheckName) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRegistering {
		return &InvalidStateError{Op: "register " + name.String(), State: o.state}
	}
	if !name.Valid() {
		return &UnknownCheckError{Name: name}
	}
	if _, dup := o.names[name]; dup {
		return &DuplicateCheckError{Name: name}
	}

	chk, err := o.factory(name)
	if err != nil {
		return &UnknownCheckError{Name: name, Err: err}
	}
	if chk == nil {
		return &UnknownCheckError{Name: name, Err: errors.New("dispatch table returned no checker")}
	}

	o.names[name] = struct{}{}
	o.entries = append(o.entries, entry{name: name, check: chk})
	o.logger.Debug("check registered", zap.String("check", name.String()), zap.Int("position", len(o.entries)))
	return nil
}

// Run executes every registered check and returns the sealed report. It may
// be called once. A Reporter failure is returned as *ReportingError together
// with the report.
func (o *Orchestrator) Run(ctx context.Context) (*scan.Report, error) {
	o.mu.Lock()
	if o.state != StateRegistering {
		state := o.state
		o.mu.Unlock()
		return nil, &InvalidStateError{Op: "run", State: state}
	}
	if len(o.entries) == 0 {
		o.mu.Unlock()
		return nil, &EmptyRegistryError{}
	}
	o.state = StateRunning
	entries := make([]entry, len(o.entries))
	copy(entries, o.entries)
	o.mu.Unlock()

	limiter := rate.NewLimiter(rate.Inf, 0)
	if o.rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.rateLimit), o.rateLimit)
	}

	o.logger.Info("scan started",
		zap.String("target", o.target.String()),
		zap.Int("checks", len(entries)),
		zap.Duration("timeout", o.timeout),
		zap.Int("concurrency", o.concurrency))

	start := time.Now()
	results := make([]scan.Result, len(entries))
	outcomes := make(chan outcome, len(entries))

	go func() {
		var g errgroup.Group
		if o.concurrency > 0 {
			g.SetLimit(o.concurrency)
		}
		for i, e := range entries {
			g.Go(func() error {
				outcomes <- outcome{index: i, result: o.execute(ctx, limiter, e)}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		results[out.index] = out.result
		o.logger.Debug("check finished",
			zap.String("check", out.result.Name.String()),
			zap.String("status", out.result.Status.String()),
			zap.Duration("duration", out.result.Duration))
		if o.observer != nil {
			o.observer(out.result)
		}
	}

	report := scan.NewReport(uuid.NewString(), o.target, start, time.Now(), results)

	o.mu.Lock()
	o.state = StateDone
	o.mu.Unlock()

	o.logger.Info("scan finished",
		zap.String("scan_id", report.ID()),
		zap.Duration("elapsed", report.Elapsed()),
		zap.Bool("has_failures", report.HasFailures()))

	if o.reporter != nil {
		if err := o.reporter.Report(report); err != nil {
			o.logger.Error("reporter failed", zap.String("scan_id", report.ID()), zap.Error(err))
			return report, &ReportingError{Err: err}
		}
	}
	return report, nil
}

// execute runs one check under its own deadline and always returns a result
// stamped with the registered name.
func (o *Orchestrator) execute(ctx context.Context, limiter *rate.Limiter, e entry) scan.Result {
	start := time.Now()
	finish := func(r scan.Result) scan.Result {
		r.Duration = time.Since(start)
		return r
	}

	if err := limiter.Wait(ctx); err != nil {
		return finish(scan.ErrorResult(e.name, fmt.Errorf("%w before start: %v", domainErrors.ErrCheckCancelled, err)))
	}

	checkCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	// Buffered so an abandoned check can still deliver and exit.
	done := make(chan checkReturn, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- checkReturn{panicked: r}
			}
		}()
		done <- checkReturn{result: e.check.Check(checkCtx, o.target)}
	}()

	var ret checkReturn
	select {
	case ret = <-done:
	case <-checkCtx.Done():
		select {
		case ret = <-done:
		default:
			return finish(o.abandoned(ctx, e.name))
		}
	}

	if ret.panicked != nil {
		o.logger.Error("check panicked", zap.String("check", e.name.String()), zap.Any("panic", ret.panicked))
		return finish(scan.ErrorResult(e.name, fmt.Errorf("%w: %v", domainErrors.ErrCheckPanicked, ret.panicked)))
	}

	result := ret.result
	if result.Name != e.name {
		if result.Name != "" {
			o.logger.Warn("check returned a result for another name",
				zap.String("check", e.name.String()), zap.String("returned", result.Name.String()))
		}
		result.Name = e.name
	}
	if !result.Status.Valid() {
		o.logger.Warn("check returned an invalid status",
			zap.String("check", e.name.String()), zap.String("status", string(result.Status)))
		result = scan.ErrorResult(e.name, fmt.Errorf("check returned invalid status %q", result.Status))
	}
	return finish(result)
}

// abandoned builds the result for a check that missed its deadline or whose
// scan was cancelled.
func (o *Orchestrator) abandoned(ctx context.Context, name scan.CheckName) scan.Result {
	if ctx.Err() != nil {
		o.logger.Warn("check cancelled", zap.String("check", name.String()))
		return scan.ErrorResult(name, fmt.Errorf("%w: %v", domainErrors.ErrCheckCancelled, ctx.Err()))
	}
	o.logger.Warn("check timed out", zap.String("check", name.String()), zap.Duration("timeout", o.timeout))
	return scan.ErrorResult(name, fmt.Errorf("%w after %s", domainErrors.ErrCheckTimeout, o.timeout))
}
