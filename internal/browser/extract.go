package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/stage"
)

// DefaultTimeout bounds each introspection command.
const DefaultTimeout = 10 * time.Second

// Options configures an Extractor. Zero values select defaults.
type Options struct {
	Runner    Runner
	Timeout   time.Duration
	Timeouts  map[Family]time.Duration // per-family override of Timeout
	Overrides Overrides
	Logger    logging.Logger
}

// Extractor reads installed browser versions.
type Extractor struct {
	runner    Runner
	timeout   time.Duration
	timeouts  map[Family]time.Duration
	overrides Overrides
	logger    logging.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		runner:    opts.Runner,
		timeout:   opts.Timeout,
		timeouts:  opts.Timeouts,
		overrides: opts.Overrides,
		logger:    logging.OrNop(opts.Logger),
	}
	if e.runner == nil {
		e.runner = ExecRunner{}
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	return e
}

// Procedure returns the commands Extract would run.
func (e *Extractor) Procedure(f Family, os platform.OSFamily) (Procedure, error) {
	p, ok := Lookup(os, f, e.overrides)
	if !ok || len(p.Commands) == 0 {
		return Procedure{}, stage.New(stage.Version, stage.ErrUnsupportedPlatform,
			fmt.Sprintf("%s on %s", f, os), nil)
	}
	return p, nil
}

// Extract runs the introspection procedure for f on os and parses the
// version from the first candidate that prints anything.
//
// Candidates that fail to start, exit non-zero, time out or print nothing
// are skipped. If all are skipped the error kind is stage.ErrProcess. Output
// without a version is stage.ErrIntrospection and stops the search.
func (e *Extractor) Extract(ctx context.Context, f Family, os platform.OSFamily) (Version, error) {
	proc, err := e.Procedure(f, os)
	if err != nil {
		return "", err
	}

	timeout := e.timeout
	if t, ok := e.timeouts[f]; ok && t > 0 {
		timeout = t
	}

	// The joined failures name their command only when there is more than
	// one; a single command is already the error target.
	var failures []error
	fail := func(line string, err error) {
		if len(proc.Commands) > 1 {
			err = fmt.Errorf("%s: %w", line, err)
		}
		failures = append(failures, err)
	}
	for _, argv := range proc.Commands {
		line := commandLine(argv)

		runCtx, cancel := context.WithTimeout(ctx, timeout)
		out, runErr := e.runner.Run(runCtx, argv)
		cancel()

		if ctx.Err() != nil {
			return "", stage.New(stage.Version, stage.ErrProcess, line, ctx.Err())
		}
		if runErr != nil {
			e.logger.Debug("introspection command failed", "command", line, "error", runErr)
			fail(line, runErr)
			continue
		}
		if strings.TrimSpace(out) == "" {
			e.logger.Debug("introspection command printed nothing", "command", line)
			fail(line, errNoOutput)
			continue
		}

		v, parseErr := ParseVersion(out)
		if parseErr != nil {
			return "", stage.New(stage.Version, stage.ErrIntrospection, line,
				fmt.Errorf("%w: %q", parseErr, truncate(strings.TrimSpace(out), 120)))
		}

		e.logger.Debug("browser version detected", "browser", f.String(), "version", v.String(), "command", line)
		return v, nil
	}

	return "", stage.New(stage.Version, stage.ErrProcess, proc.String(), errors.Join(failures...))
}

var errNoOutput = errors.New("no output")

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
