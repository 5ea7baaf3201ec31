package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MigrationFile describes a generated up/down migration pair.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration writes a stub up/down pair into dir, named with a
// YYYYMMDDHHMMSS version prefix so lexical order matches creation order.
// The stub headers follow the format of the checked-in catalog migrations.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare migrations directory: %w", err)
	}

	mf := &MigrationFile{
		Version:     time.Now().Format("20060102150405"),
		Name:        name,
		Description: description,
	}
	base := mf.Version + "_" + slugify(name)
	mf.UpPath = filepath.Join(dir, base+".up.sql")
	mf.DownPath = filepath.Join(dir, base+".down.sql")

	if err := os.WriteFile(mf.UpPath, []byte(stubFor(mf, false)), 0o644); err != nil {
		return nil, fmt.Errorf("write up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, []byte(stubFor(mf, true)), 0o644); err != nil {
		// Don't leave a half pair behind.
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("write down migration: %w", err)
	}

	return mf, nil
}

// stubFor renders the header comment block for one side of the pair.
func stubFor(mf *MigrationFile, rollback bool) string {
	var b strings.Builder
	if rollback {
		fmt.Fprintf(&b, "-- Migration: %s (rollback)\n", mf.Name)
	} else {
		fmt.Fprintf(&b, "-- Migration: %s\n", mf.Name)
	}
	if mf.Description != "" {
		fmt.Fprintf(&b, "-- Description: %s\n", mf.Description)
	}
	b.WriteString("\n")
	return b.String()
}

// slugify lowercases a migration name and collapses spaces, dashes, and
// underscores into single underscores so the file names read like the
// checked-in migrations. Anything else is dropped.
func slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the base names of every migration pair in dir,
// sorted by version prefix. A missing directory yields an empty list.
func ListMigrations(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("scan migrations directory: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		if info, err := os.Stat(match); err != nil || info.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(filepath.Base(match), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}
