package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) SupportsLastInsertId() bool {
	// PostgreSQL doesn't support LastInsertId(), needs RETURNING clause
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	// Configure connection pool for PostgreSQL
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) UpsertDailyStat() string {
	return `
		INSERT INTO daily_stats (member_id, stat_date, words_read, stories_completed,
		                         reading_time_minutes, reading_streak_days,
		                         streak_start_date, longest_streak_days, reading_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (member_id, stat_date) DO UPDATE SET
			words_read = daily_stats.words_read + excluded.words_read,
			stories_completed = daily_stats.stories_completed + excluded.stories_completed,
			reading_time_minutes = daily_stats.reading_time_minutes + excluded.reading_time_minutes,
			updated_at = CURRENT_TIMESTAMP
	`
}

func (d *PostgresDialect) InsertUnlockIgnore() string {
	return `
		INSERT INTO achievement_unlocks
			(member_id, achievement_type, level, title, points_awarded, achieved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (member_id, achievement_type, level) DO NOTHING
	`
}
