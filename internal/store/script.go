package store

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"strings"

	"vaxetl/internal/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EmbeddedSchema returns the bundled schema script of a driver
func EmbeddedSchema(driver string) (string, error) {
	data, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("no embedded schema for driver %q: %w", driver, err)
	}
	return string(data), nil
}

// LoadSchema reads schemaFile, or the embedded script of driver when
// schemaFile is empty.
func LoadSchema(schemaFile, driver string) (string, error) {
	if schemaFile == "" {
		return EmbeddedSchema(driver)
	}
	if !config.FileExists(schemaFile) {
		return "", fmt.Errorf("schema file %s does not exist", schemaFile)
	}
	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return "", fmt.Errorf("read schema file: %w", err)
	}
	return string(data), nil
}

// SplitStatements splits a script on lines ending in ";". Blank lines and
// "--" comment lines are dropped.
func SplitStatements(script string) []string {
	scanner := bufio.NewScanner(strings.NewReader(script))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()

	return stmts
}
