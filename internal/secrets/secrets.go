// Package secrets renders the runtime secrets file consumed by the
// application. The file is recreated on every process start and holds a
// single [database] section with the DSN handed down by the hosting
// platform; it never outlives the container instance.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is where the secrets file is written unless overridden
// via configuration. The directory must be runtime-writable.
const DefaultPath = "runtime/secrets.toml"

const sectionName = "database"

// Render produces the secrets file content for the given DSN: one
// section, one key, value double-quoted.
func Render(dsn string) string {
	return fmt.Sprintf("[%s]\ndsn=%s\n", sectionName, quote(dsn))
}

// WriteFile writes the secrets file at path, creating parent
// directories as needed. An existing file is replaced.
func WriteFile(path, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("refusing to write empty DSN to %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create secrets directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Render(dsn)), 0o600); err != nil {
		return fmt.Errorf("failed to write secrets file: %w", err)
	}
	return nil
}

// ReadFile loads the DSN back from a previously written secrets file.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secrets file: %w", err)
	}

	inSection := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "["):
			inSection = line == "["+sectionName+"]"
		case inSection && strings.HasPrefix(line, "dsn="):
			return unquote(strings.TrimPrefix(line, "dsn="))
		}
	}
	return "", fmt.Errorf("no [%s] dsn entry in %s", sectionName, path)
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("dsn value is not quoted: %q", s)
	}
	body := s[1 : len(s)-1]

	var b strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		return "", fmt.Errorf("dsn value ends with dangling escape: %q", s)
	}
	return b.String(), nil
}
