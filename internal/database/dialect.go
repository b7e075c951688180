package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertDailyStat returns the additive upsert for the (member_id, stat_date)
	// aggregate row. The increments must happen inside the database so that two
	// concurrent sessions for the same member and day cannot lose updates.
	// Placeholders: member_id, stat_date, words_read, stories_completed,
	// reading_time_minutes, reading_streak_days, streak_start_date,
	// longest_streak_days, reading_level.
	UpsertDailyStat() string

	// InsertUnlockIgnore returns an insert for achievement_unlocks that is a
	// no-op when the (member_id, achievement_type, level) row already exists.
	// Placeholders: member_id, achievement_type, level, title, points_awarded,
	// achieved_at.
	InsertUnlockIgnore() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
