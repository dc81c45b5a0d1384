package postgres

import (
	"fmt"
	"strings"
)

// BuildDSN creates a PostgreSQL DSN from the provided options.
//
// The password is escaped so values with special characters cannot break
// out of the space-separated key=value DSN format.
func BuildDSN(opts *Options) string {
	if opts == nil {
		return ""
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		opts.Host,
		opts.Port,
		opts.Username,
		escapeValue(opts.Password),
		opts.Database,
		opts.SSLMode,
	)
}

// escapeValue escapes a value for the PostgreSQL DSN format, quoting it when
// it contains spaces or quote characters.
func escapeValue(value string) string {
	if value == "" {
		return "''"
	}

	if strings.ContainsAny(value, " '\\") {
		escaped := strings.ReplaceAll(value, "'", "''")
		escaped = strings.ReplaceAll(escaped, "\\", "\\\\")
		return "'" + escaped + "'"
	}

	return value
}
