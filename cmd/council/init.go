// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jllopis/council/cmd/council/scaffold"
)

func runInit(global globalFlags, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)

	overwrite := fs.Bool("overwrite", false, "Overwrite existing files")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: council init <directory> [flags]

Generate a new Council workspace: starter config, .env template, and the
inbox and debates directories.

Arguments:
  directory    Target directory for the workspace

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  council init my-council
  council init . --overwrite
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: directory argument required")
		fs.Usage()
		os.Exit(1)
	}

	dir := fs.Arg(0)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid directory path: %v\n", err)
		os.Exit(1)
	}

	projectName := filepath.Base(absDir)

	opts := scaffold.Options{
		ProjectName: projectName,
		Overwrite:   *overwrite,
	}

	fmt.Printf("Creating Council workspace %q...\n", projectName)

	if err := scaffold.Generate(absDir, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating workspace: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("✅ Workspace created successfully!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  cp .env.example .env   # add at least two API keys")
	fmt.Println("  council --config council.yaml validate")
	fmt.Println("  council --config council.yaml inbox")
}
