package main

import (
	"context"
	"fmt"
)

// runVersion handles the `driverfetch version` subcommand
func runVersion(args []string) error {
	opts, err := parsePipelineArgs("version", args, false)
	if err != nil {
		return err
	}
	if opts.showHelp {
		printVersionHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	m, cleanup, err := setup(ctx, opts.globalOpts, nil, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	v, _, err := m.BrowserVersion(ctx, opts.browser)
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

func printVersionHelp() {
	fmt.Println("Usage: driverfetch version <browser> [options]")
	fmt.Println()
	fmt.Println("Print the installed browser version (MAJOR.MINOR.BUILD).")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH    Config file")
	fmt.Println("  -v, --verbose    Log at debug level")
	fmt.Println("  -h, --help       Show this help message")
}
