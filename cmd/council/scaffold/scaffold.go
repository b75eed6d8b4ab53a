// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package scaffold generates Council workspace scaffolding.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Options configures workspace generation.
type Options struct {
	ProjectName string
	Overwrite   bool
}

// Generate creates a new Council workspace at the given directory.
func Generate(dir string, opts Options) error {
	dirs := []string{
		"inbox",
		"inbox/archive",
		"debates",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	for _, f := range filesToGenerate() {
		if err := generateFile(dir, f, opts); err != nil {
			return fmt.Errorf("generating %s: %w", f.Path, err)
		}
		fmt.Printf("  Created: %s\n", f.Path)
	}

	return nil
}

type fileSpec struct {
	Path     string
	Template string
}

func filesToGenerate() []fileSpec {
	return []fileSpec{
		{"council.yaml", councilYAMLTemplate},
		{".env.example", envExampleTemplate},
		{".gitignore", gitignoreTemplate},
		{"README.md", readmeTemplate},
		{"inbox/example-question.md", exampleQuestionTemplate},
	}
}

func generateFile(dir string, spec fileSpec, opts Options) error {
	path := filepath.Join(dir, spec.Path)
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --overwrite)", spec.Path)
		}
	}

	tmpl, err := template.New(spec.Path).Parse(spec.Template)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return tmpl.Execute(f, opts)
}
