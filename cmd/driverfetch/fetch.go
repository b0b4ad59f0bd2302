package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/driver"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/metrics"
)

// runFetch handles the `driverfetch fetch` subcommand
func runFetch(args []string) error {
	opts, err := parsePipelineArgs("fetch", args, true)
	if err != nil {
		return err
	}
	if opts.showHelp {
		printFetchHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	met := opts.newMetrics()
	m, cleanup, err := setup(ctx, opts.globalOpts, met, opts.applyTo)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := m.Acquire(ctx, driver.AcquireOptions{Family: opts.browser, Dest: opts.dest})
	if err := opts.flushMetrics(met, err); err != nil {
		return err
	}

	if opts.asYAML {
		return writeYAML(os.Stdout, newReport(res))
	}
	writeSummary(os.Stdout, res)
	return nil
}

// newMetrics returns nil unless --metrics-file was given.
func (o *pipelineOpts) newMetrics() *metrics.Metrics {
	if o.metricsFile == "" {
		return nil
	}
	return metrics.New()
}

// flushMetrics writes the metrics file, if any, and returns runErr. The file
// is written for failed runs too.
func (o *pipelineOpts) flushMetrics(m *metrics.Metrics, runErr error) error {
	if m == nil {
		return runErr
	}
	if err := m.WriteTextfile(o.metricsFile); err != nil {
		return errors.Join(runErr, fmt.Errorf("write metrics %s: %w", o.metricsFile, err))
	}
	return runErr
}

// applyTo lets command-line flags win over config and environment.
func (o *pipelineOpts) applyTo(c *config.Config) error {
	if o.insecure {
		c.InsecureTLS = true
	}
	if o.retries >= 0 {
		c.Retries = o.retries
	}
	return nil
}

func printFetchHelp() {
	fmt.Println("Usage: driverfetch fetch <browser> [options]")
	fmt.Println()
	fmt.Println("Download the chromedriver archive matching the installed browser.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -o, --dest PATH  Archive path or existing directory")
	fmt.Println("                   (default: ./chromedriver_<release>_<tag>.zip)")
	fmt.Println("  --insecure       Skip TLS certificate verification for the download")
	fmt.Println("  --retries N      Retry transient registry failures N times")
	fmt.Println("  --yaml           Print YAML instead of text")
	fmt.Println("  --metrics-file PATH")
	fmt.Println("                   Write Prometheus metrics for this run to PATH")
	fmt.Println("  --config PATH    Config file")
	fmt.Println("  -v, --verbose    Log at debug level")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  driverfetch fetch chrome")
	fmt.Println("  driverfetch fetch chromium --dest ./drivers --retries 3")
}
