// Command msglint checks a message bundle directory for missing, redundant and
// malformed translations.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/napalu/goopt"

	"github.com/dmitrymomot/polyglot/internal/lint"
)

type Config struct {
	Dir  string `goopt:"name:dir;short:d;desc:Bundle directory to check;default:conf"`
	Fail bool   `goopt:"name:fail;short:f;desc:Exit with status 1 when issues are found"`
	Help bool   `goopt:"name:help;short:h;desc:Show help"`
}

func main() {
	cfg := &Config{}
	parser, err := goopt.NewParserFromStruct(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if !parser.Parse(os.Args) {
		for _, err := range parser.GetErrors() {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(2)
	}

	if cfg.Help {
		parser.PrintUsageWithGroups(os.Stdout)
		return
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %q is not a directory\n", cfg.Dir)
		os.Exit(2)
	}

	report, err := lint.Run(context.Background(), os.DirFS(cfg.Dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := report.Write(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.Fail && report.Failed() {
		os.Exit(1)
	}
}
