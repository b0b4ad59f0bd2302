package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
)

// pipelineOpts holds parsed options for version, resolve and fetch.
type pipelineOpts struct {
	globalOpts
	showHelp bool
	asYAML   bool
	browser  browser.Family

	// resolve and fetch
	metricsFile string

	// fetch only
	dest     string
	insecure bool
	retries  int // -1 means use the config value
}

// parsePipelineArgs parses arguments for a pipeline command. fetchFlags
// enables --dest, --insecure and --retries.
func parsePipelineArgs(cmd string, args []string, fetchFlags bool) (*pipelineOpts, error) {
	opts := &pipelineOpts{retries: -1}
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		n, err := opts.parseGlobal(args, i)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			i += n - 1
			continue
		}

		switch {
		case arg == "--help" || arg == "-h":
			opts.showHelp = true
		case arg == "--yaml" && cmd != "version":
			opts.asYAML = true
		case arg == "--metrics-file" && cmd != "version":
			v, err := optionValue(args, i)
			if err != nil {
				return nil, err
			}
			opts.metricsFile = v
			i++
		case fetchFlags && (arg == "--dest" || arg == "-o"):
			v, err := optionValue(args, i)
			if err != nil {
				return nil, err
			}
			opts.dest = v
			i++
		case fetchFlags && arg == "--insecure":
			opts.insecure = true
		case fetchFlags && arg == "--retries":
			v, err := optionValue(args, i)
			if err != nil {
				return nil, err
			}
			r, err := strconv.Atoi(v)
			if err != nil || r < 0 {
				return nil, fmt.Errorf("invalid --retries value %q", v)
			}
			opts.retries = r
			i++
		case len(arg) > 0 && arg[0] != '-':
			positional = append(positional, arg)
		default:
			return nil, fmt.Errorf("unknown option: %s\nRun 'driverfetch %s --help' for usage", arg, cmd)
		}
	}

	if opts.showHelp {
		return opts, nil
	}
	switch len(positional) {
	case 0:
		return nil, fmt.Errorf("no browser specified; run 'driverfetch %s --help' for usage", cmd)
	case 1:
	default:
		return nil, fmt.Errorf("expected one browser, got %d", len(positional))
	}

	f, err := browser.ParseFamily(positional[0])
	if err != nil {
		return nil, err
	}
	opts.browser = f
	return opts, nil
}

// runResolve handles the `driverfetch resolve` subcommand
func runResolve(args []string) error {
	opts, err := parsePipelineArgs("resolve", args, false)
	if err != nil {
		return err
	}
	if opts.showHelp {
		printResolveHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	met := opts.newMetrics()
	m, cleanup, err := setup(ctx, opts.globalOpts, met, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := m.Resolve(ctx, opts.browser)
	if err := opts.flushMetrics(met, err); err != nil {
		return err
	}

	if opts.asYAML {
		return writeYAML(os.Stdout, newReport(res))
	}
	writeSummary(os.Stdout, res)
	return nil
}

func printResolveHelp() {
	fmt.Println("Usage: driverfetch resolve <browser> [options]")
	fmt.Println()
	fmt.Println("Find the driver release matching the installed browser without downloading it.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --yaml           Print YAML instead of text")
	fmt.Println("  --metrics-file PATH")
	fmt.Println("                   Write Prometheus metrics for this run to PATH")
	fmt.Println("  --config PATH    Config file")
	fmt.Println("  -v, --verbose    Log at debug level")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  driverfetch resolve chrome")
	fmt.Println("  driverfetch resolve msedge --yaml")
}
