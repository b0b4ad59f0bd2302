package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/config"
)

// runConfigInit handles the `driverfetch config init` subcommand
func runConfigInit(args []string) error {
	force := false
	var g globalOpts
	for i := 0; i < len(args); i++ {
		n, err := g.parseGlobal(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n - 1
			continue
		}
		switch args[i] {
		case "--help", "-h":
			printConfigInitHelp()
			return nil
		case "--force", "-f":
			force = true
		default:
			return fmt.Errorf("unknown option: %s\nRun 'driverfetch config init --help' for usage", args[i])
		}
	}

	path := g.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	if err := writeDefaultConfig(path, force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// writeDefaultConfig writes the generated default config to path. An
// existing file is kept unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check config file: %w", err)
		}
	}

	content, err := config.NewGenerator().Generate(config.Default())
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func printConfigInitHelp() {
	fmt.Println("Usage: driverfetch config init [options]")
	fmt.Println()
	fmt.Println("Write a default config file with every setting and its default value.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH  Where to write (default: $DRIVERFETCH_CONFIG or user config dir)")
	fmt.Println("  -f, --force    Overwrite an existing file")
	fmt.Println("  -h, --help     Show this help message")
}
