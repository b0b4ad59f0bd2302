package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("driverfetch %s\n", Version)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "platform":
			exitOnError(runPlatform(os.Args[2:]))
			return
		case "version":
			exitOnError(runVersion(os.Args[2:]))
			return
		case "resolve":
			exitOnError(runResolve(os.Args[2:]))
			return
		case "fetch":
			exitOnError(runFetch(os.Args[2:]))
			return
		case "config":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "Error: config subcommand requires an action")
				fmt.Fprintln(os.Stderr, "Usage: driverfetch config init [--force]")
				os.Exit(1)
			}
			switch os.Args[2] {
			case "init":
				exitOnError(runConfigInit(os.Args[3:]))
			default:
				fmt.Fprintf(os.Stderr, "Error: unknown config action: %s\n", os.Args[2])
				fmt.Fprintln(os.Stderr, "Usage: driverfetch config init [--force]")
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("driverfetch - download the chromedriver build matching your browser")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  driverfetch --version                 Show version information")
	fmt.Println("  driverfetch platform                  Show the detected platform")
	fmt.Println("  driverfetch version <browser>         Show the installed browser version")
	fmt.Println("  driverfetch resolve <browser>         Show the matching driver release")
	fmt.Println("  driverfetch fetch <browser>           Download the matching driver archive")
	fmt.Println("  driverfetch config init               Write a default config file")
	fmt.Println()
	fmt.Println("Browsers: chrome, chromium, msedge")
	fmt.Println()
	fmt.Println("Global options:")
	fmt.Println("  -v, --verbose      Log at debug level")
	fmt.Println("  --config PATH      Config file (default: $DRIVERFETCH_CONFIG or user config dir)")
	fmt.Println()
	fmt.Println("Run 'driverfetch <command> --help' for command options.")
}
