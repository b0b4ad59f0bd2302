package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

// platformReport is the --yaml form of `driverfetch platform`.
type platformReport struct {
	Tag        string `yaml:"tag"`
	OS         string `yaml:"os"`
	Arch       string `yaml:"arch"`
	KernelArch string `yaml:"kernel_arch,omitempty"`
	Distro     string `yaml:"distro,omitempty"`
	Family     string `yaml:"family,omitempty"`
	Version    string `yaml:"version,omitempty"`
}

func newPlatformReport(info *platform.Info) platformReport {
	return platformReport{
		Tag:        info.Tag().String(),
		OS:         info.OS,
		Arch:       info.Arch,
		KernelArch: info.KernelArch,
		Distro:     info.Platform,
		Family:     info.Family,
		Version:    info.Version,
	}
}

// platformOpts holds parsed options for `driverfetch platform`.
type platformOpts struct {
	globalOpts
	showHelp bool
	asYAML   bool
}

func parsePlatformArgs(args []string) (*platformOpts, error) {
	opts := &platformOpts{}
	for i := 0; i < len(args); i++ {
		n, err := opts.parseGlobal(args, i)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			i += n - 1
			continue
		}

		switch args[i] {
		case "--help", "-h":
			opts.showHelp = true
		case "--yaml":
			opts.asYAML = true
		default:
			return nil, fmt.Errorf("unknown option: %s\nRun 'driverfetch platform --help' for usage", args[i])
		}
	}
	return opts, nil
}

// runPlatform handles the `driverfetch platform` subcommand
func runPlatform(args []string) error {
	opts, err := parsePlatformArgs(args)
	if err != nil {
		return err
	}
	if opts.showHelp {
		printPlatformHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	m, cleanup, err := setup(ctx, opts.globalOpts, nil, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := m.Detect(ctx)
	if err != nil {
		return err
	}

	if opts.asYAML {
		return writeYAML(os.Stdout, newPlatformReport(info))
	}
	printPlatform(os.Stdout, info)
	return nil
}

func printPlatform(w io.Writer, info *platform.Info) {
	fmt.Fprintf(w, "Tag:          %s\n", info.Tag())
	fmt.Fprintf(w, "OS:           %s\n", info.OS)
	fmt.Fprintf(w, "Architecture: %s\n", info.Arch)
	if info.KernelArch != "" {
		fmt.Fprintf(w, "Kernel arch:  %s\n", info.KernelArch)
	}
	if d := info.GetDistro(); d != nil {
		fmt.Fprintf(w, "Distro:       %s %s (%s)\n", d.ID, d.Version, d.Family)
	}
}

func printPlatformHelp() {
	fmt.Println("Usage: driverfetch platform [options]")
	fmt.Println()
	fmt.Println("Show the detected platform and the archive tag it maps to.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --yaml           Print YAML instead of text")
	fmt.Println("  --config PATH    Config file")
	fmt.Println("  -v, --verbose    Log at debug level")
	fmt.Println("  -h, --help       Show this help message")
}
