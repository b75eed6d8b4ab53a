// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package inbox queues question files for batch debates. Files are plain
// markdown with optional YAML frontmatter carrying per-file overrides;
// processed files move to an archive directory with a timestamp prefix.
package inbox

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jllopis/council/pkg/errors"
)

// Meta carries the frontmatter overrides a file may set. Pointer fields
// distinguish absent from a zero value.
type Meta struct {
	Models *string `yaml:"models"`
	Rounds *int    `yaml:"rounds"`
	Full   *bool   `yaml:"full"`
}

// EffectiveRounds resolves the round count for one file. The CLI flag wins,
// then frontmatter, then the configured default.
func (m Meta) EffectiveRounds(cli, def int) int {
	if cli > 0 {
		return cli
	}
	if m.Rounds != nil {
		return *m.Rounds
	}
	return def
}

// EffectiveModels resolves the explicit panel override, empty meaning none.
func (m Meta) EffectiveModels(cli string) string {
	if cli != "" {
		return cli
	}
	if m.Models != nil {
		return *m.Models
	}
	return ""
}

// EffectiveFull reports whether the full panel was requested by flag or file.
func (m Meta) EffectiveFull(cli bool) bool {
	return cli || (m.Full != nil && *m.Full)
}

// File is one parsed inbox entry.
type File struct {
	Path     string
	Question string
	Meta     Meta
}

// Stem returns the file name without directory or extension. Inbox runs use
// it as the transcript slug.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EnsureDirs creates the inbox and archive directories when missing.
func EnsureDirs(inboxDir, archiveDir string) error {
	for _, dir := range []string{inboxDir, archiveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(errors.CodeInternal, "inbox: create "+dir, err)
		}
	}
	return nil
}

// Scan returns the markdown files queued in dir, oldest first.
func Scan(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "inbox: scan "+dir, err)
	}

	type entry struct {
		path  string
		mtime time.Time
	}
	entries := make([]entry, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			// File vanished between glob and stat; the batch moves on.
			continue
		}
		entries = append(entries, entry{path: m, mtime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].mtime.Equal(entries[j].mtime) {
			return entries[i].path < entries[j].path
		}
		return entries[i].mtime.Before(entries[j].mtime)
	})

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths, nil
}

// ParseFile reads one inbox file, splitting optional YAML frontmatter from
// the question body. A file without frontmatter is all question.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeNotFound, "inbox: read "+path, err)
	}

	raw, body := splitFrontmatter(data)
	f := &File{Path: path, Question: strings.TrimSpace(string(body))}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &f.Meta); err != nil {
			return nil, errors.New(errors.CodeInvalidInput, "inbox: frontmatter in "+path, err).
				WithContext("path", path)
		}
	}
	return f, nil
}

// Archive moves a processed file into archiveDir with a minute-resolution
// timestamp prefix. Failed runs additionally get a FAILED_ prefix so they
// stand out when triaging the archive.
func Archive(path, archiveDir string, failed bool) (string, error) {
	stamp := time.Now().Format("2006-01-02T1504")
	prefix := ""
	if failed {
		prefix = "FAILED_"
	}
	dest := filepath.Join(archiveDir, fmt.Sprintf("%s%s_%s", prefix, stamp, filepath.Base(path)))

	if err := os.Rename(path, dest); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if err := moveByCopy(path, dest); err != nil {
			return "", errors.New(errors.CodeInternal, "inbox: archive "+path, err)
		}
	}
	return dest, nil
}

func moveByCopy(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}

// splitFrontmatter returns the YAML block and the remaining body. Input
// without a leading delimiter line, or with an unterminated block, comes
// back untouched as body.
func splitFrontmatter(data []byte) (meta, body []byte) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, data
	}
	rest := data[bytes.IndexByte(data, '\n')+1:]

	for _, open := range []string{"---\n", "---\r\n"} {
		if bytes.HasPrefix(rest, []byte(open)) {
			return nil, rest[len(open):]
		}
	}
	for _, end := range []string{"\n---\n", "\n---\r\n"} {
		if i := bytes.Index(rest, []byte(end)); i >= 0 {
			return rest[:i+1], rest[i+len(end):]
		}
	}
	for _, end := range []string{"\n---", "\n---\r"} {
		if bytes.HasSuffix(rest, []byte(end)) {
			return rest[:len(rest)-len(end)+1], nil
		}
	}
	return nil, data
}
