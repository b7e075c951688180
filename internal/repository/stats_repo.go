package repository

import (
	"database/sql"
	"fmt"

	"hekaya/internal/database"
	"hekaya/internal/models"
)

// StatsRepository handles reading-session events and daily aggregate rows
type StatsRepository struct {
	db database.DBTX
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db database.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction.
func (r *StatsRepository) WithTx(tx *database.Tx) *StatsRepository {
	return &StatsRepository{db: tx}
}

// InsertSession appends a reading-session event to the event store.
func (r *StatsRepository) InsertSession(s *models.ReadingSession) (int64, error) {
	query := `
		INSERT INTO reading_sessions (member_id, story_id, words_read, time_spent_seconds,
		                              reading_progress, session_start, session_end, start_hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query,
		s.MemberID, s.StoryID, s.WordsRead, s.TimeSpentSeconds,
		s.ReadingProgress, s.SessionStart, s.SessionEnd, s.SessionStart.Hour())
}

// ApplySessionDelta atomically upserts the (member, date) aggregate row. The
// streak fields only take effect when the row is created; on conflict the
// counters are incremented inside the database so concurrent sessions for
// the same member and day cannot lose updates.
func (r *StatsRepository) ApplySessionDelta(memberID int64, date string, words, minutes, stories int,
	streakDays int, streakStart string, longest int, level models.ReadingLevel) error {

	query := r.db.GetDialect().UpsertDailyStat()
	_, err := r.db.Exec(query,
		memberID, date, words, stories, minutes,
		streakDays, streakStart, longest, string(level))
	if err != nil {
		return fmt.Errorf("failed to upsert daily stat: %w", err)
	}
	return nil
}

// UpdateStreakAndLevel rewrites the derived fields on an existing aggregate
// row after the counters have been incremented.
func (r *StatsRepository) UpdateStreakAndLevel(memberID int64, date string,
	streakDays int, streakStart string, longest int, level models.ReadingLevel) error {

	query := `
		UPDATE daily_stats
		SET reading_streak_days = ?, streak_start_date = ?, longest_streak_days = ?,
		    reading_level = ?, updated_at = CURRENT_TIMESTAMP
		WHERE member_id = ? AND stat_date = ?
	`
	_, err := r.db.Exec(query, streakDays, streakStart, longest, string(level), memberID, date)
	return err
}

// GetByMemberAndDate returns the aggregate row for one day, or nil when the
// member has no activity on that date.
func (r *StatsRepository) GetByMemberAndDate(memberID int64, date string) (*models.DailyStat, error) {
	query := `
		SELECT id, member_id, stat_date, words_read, stories_completed, reading_time_minutes,
		       reading_streak_days, streak_start_date, longest_streak_days, reading_level,
		       created_at, updated_at
		FROM daily_stats
		WHERE member_id = ? AND stat_date = ?
	`
	return r.scanStat(r.db.QueryRow(query, memberID, date))
}

// LatestActive returns the most recent aggregate row with words_read > 0.
func (r *StatsRepository) LatestActive(memberID int64) (*models.DailyStat, error) {
	query := `
		SELECT id, member_id, stat_date, words_read, stories_completed, reading_time_minutes,
		       reading_streak_days, streak_start_date, longest_streak_days, reading_level,
		       created_at, updated_at
		FROM daily_stats
		WHERE member_id = ? AND words_read > 0
		ORDER BY stat_date DESC
		LIMIT 1
	`
	return r.scanStat(r.db.QueryRow(query, memberID))
}

// LatestDate returns the newest aggregate date for the member, or "" when
// the member has no rows. Used to reject out-of-order backfill writes.
func (r *StatsRepository) LatestDate(memberID int64) (string, error) {
	var date sql.NullString
	query := "SELECT MAX(stat_date) FROM daily_stats WHERE member_id = ?"
	if err := r.db.QueryRow(query, memberID).Scan(&date); err != nil {
		return "", err
	}
	if !date.Valid {
		return "", nil
	}
	return date.String, nil
}

// TrailingWordsAverage averages words_read over aggregate rows in the
// inclusive [from, to] window. Returns 0 for an empty window.
func (r *StatsRepository) TrailingWordsAverage(memberID int64, from, to string) (float64, error) {
	query := `
		SELECT COALESCE(AVG(words_read), 0)
		FROM daily_stats
		WHERE member_id = ? AND stat_date >= ? AND stat_date <= ?
	`
	var avg float64
	err := r.db.QueryRow(query, memberID, from, to).Scan(&avg)
	return avg, err
}

// MemberTotals sums the aggregate rows in the window into a statistics
// summary. Streaks and level come from the latest row in the window.
func (r *StatsRepository) MemberTotals(memberID int64, from string) (*models.MemberStats, error) {
	stats := &models.MemberStats{ReadingLevel: models.LevelBeginner}

	query := `
		SELECT COALESCE(SUM(words_read), 0), COALESCE(SUM(stories_completed), 0),
		       COALESCE(SUM(reading_time_minutes), 0), COUNT(*)
		FROM daily_stats
		WHERE member_id = ? AND stat_date >= ? AND words_read > 0
	`
	err := r.db.QueryRow(query, memberID, from).Scan(
		&stats.TotalWords, &stats.TotalStories, &stats.TotalTimeMinutes, &stats.ReadingDays)
	if err != nil {
		return nil, err
	}

	if stats.ReadingDays > 0 {
		stats.DailyAverage = float64(stats.TotalWords) / float64(stats.ReadingDays)
	}

	var level sql.NullString
	levelQuery := `
		SELECT reading_level FROM daily_stats
		WHERE member_id = ?
		ORDER BY stat_date DESC
		LIMIT 1
	`
	if err := r.db.QueryRow(levelQuery, memberID).Scan(&level); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if level.Valid {
		stats.ReadingLevel = models.ReadingLevel(level.String)
	}

	return stats, nil
}

// SessionCounts returns the number of sessions and completed sessions since
// the given date, for completion-rate math.
func (r *StatsRepository) SessionCounts(memberID int64, from string) (total, completed int, err error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN reading_progress >= 100 THEN 1 ELSE 0 END), 0)
		FROM reading_sessions
		WHERE member_id = ? AND session_start >= ?
	`
	err = r.db.QueryRow(query, memberID, from).Scan(&total, &completed)
	return total, completed, err
}

// MemberProgress assembles the snapshot the achievement engine evaluates.
func (r *StatsRepository) MemberProgress(memberID int64, goalWords int) (*models.MemberProgress, error) {
	progress := &models.MemberProgress{ReadingLevel: models.LevelBeginner}

	lifetime := `
		SELECT COALESCE(SUM(words_read), 0), COALESCE(SUM(stories_completed), 0),
		       COALESCE(SUM(reading_time_minutes), 0),
		       COALESCE(MAX(longest_streak_days), 0),
		       COALESCE(SUM(CASE WHEN words_read >= ? THEN 1 ELSE 0 END), 0)
		FROM daily_stats
		WHERE member_id = ?
	`
	err := r.db.QueryRow(lifetime, goalWords, memberID).Scan(
		&progress.LifetimeWords, &progress.LifetimeStories, &progress.TotalMinutes,
		&progress.LongestStreak, &progress.GoalDays)
	if err != nil {
		return nil, err
	}

	wpm := `
		SELECT COALESCE(MAX(words_read / reading_time_minutes), 0)
		FROM daily_stats
		WHERE member_id = ? AND reading_time_minutes > 0
	`
	if err := r.db.QueryRow(wpm, memberID).Scan(&progress.BestWordsPerMin); err != nil {
		return nil, err
	}

	categories := `
		SELECT COUNT(DISTINCT s.category)
		FROM reading_sessions rs
		JOIN stories s ON s.id = rs.story_id
		WHERE rs.member_id = ?
	`
	if err := r.db.QueryRow(categories, memberID).Scan(&progress.CategoriesRead); err != nil {
		return nil, err
	}

	early := `
		SELECT COUNT(*)
		FROM reading_sessions
		WHERE member_id = ? AND start_hour < 8
	`
	if err := r.db.QueryRow(early, memberID).Scan(&progress.EarlySessions); err != nil {
		return nil, err
	}

	latest, err := r.LatestActive(memberID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		progress.ReadingLevel = latest.ReadingLevel
		// CurrentStreak is freshness-gated by the caller against today's date
		progress.CurrentStreak = latest.ReadingStreakDays
	}

	return progress, nil
}

// PopulationScores returns one scored row per member with qualifying
// activity since fromDate, ordered by the metric's documented sort. The
// caller derives competition ranks, percentiles and pagination from it.
func (r *StatsRepository) PopulationScores(metric models.LeaderboardMetric, from string, levelFilter string) ([]models.LeaderboardEntry, error) {
	var score, secondary string
	switch metric {
	case models.MetricWords:
		score = "COALESCE(SUM(d.words_read), 0)"
		secondary = ""
	case models.MetricStories:
		score = "COALESCE(SUM(d.stories_completed), 0)"
		secondary = ", COALESCE(SUM(d.words_read), 0) DESC"
	case models.MetricStreaks:
		score = "COALESCE(MAX(d.reading_streak_days), 0)"
		secondary = ", COALESCE(SUM(d.words_read), 0) DESC"
	default:
		return nil, fmt.Errorf("unsupported stats metric: %s", metric)
	}

	query := `
		SELECT d.member_id, m.name, ` + score + ` AS score,
		       COALESCE(SUM(d.words_read), 0),
		       COALESCE(SUM(d.stories_completed), 0),
		       COALESCE(MAX(d.reading_streak_days), 0),
		       MAX(d.reading_level)
		FROM daily_stats d
		JOIN members m ON m.id = d.member_id
		WHERE d.stat_date >= ? AND d.words_read > 0
	`
	args := []interface{}{from}
	if levelFilter != "" {
		query += " AND d.reading_level = ?"
		args = append(args, levelFilter)
	}
	query += " GROUP BY d.member_id, m.name ORDER BY score DESC" + secondary

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		var level sql.NullString
		err := rows.Scan(&e.MemberID, &e.MemberName, &e.Score,
			&e.TotalWords, &e.StoriesCompleted, &e.BestStreak, &level)
		if err != nil {
			return nil, err
		}
		if level.Valid {
			e.ReadingLevel = models.ReadingLevel(level.String)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GlobalTotals aggregates the whole population since fromDate: total words,
// total stories, active member count.
func (r *StatsRepository) GlobalTotals(from string) (words, stories, members int, err error) {
	query := `
		SELECT COALESCE(SUM(words_read), 0), COALESCE(SUM(stories_completed), 0),
		       COUNT(DISTINCT member_id)
		FROM daily_stats
		WHERE stat_date >= ? AND words_read > 0
	`
	err = r.db.QueryRow(query, from).Scan(&words, &stories, &members)
	return words, stories, members, err
}

// GlobalTotalsBetween aggregates the population over [from, to), used for
// period-over-period trend comparison.
func (r *StatsRepository) GlobalTotalsBetween(from, to string) (words, stories, members int, err error) {
	query := `
		SELECT COALESCE(SUM(words_read), 0), COALESCE(SUM(stories_completed), 0),
		       COUNT(DISTINCT member_id)
		FROM daily_stats
		WHERE stat_date >= ? AND stat_date < ? AND words_read > 0
	`
	err = r.db.QueryRow(query, from, to).Scan(&words, &stories, &members)
	return words, stories, members, err
}

func (r *StatsRepository) scanStat(row *sql.Row) (*models.DailyStat, error) {
	stat := &models.DailyStat{}
	var streakStart sql.NullString
	var level string

	err := row.Scan(
		&stat.ID, &stat.MemberID, &stat.StatDate,
		&stat.WordsRead, &stat.StoriesCompleted, &stat.ReadingTimeMinutes,
		&stat.ReadingStreakDays, &streakStart, &stat.LongestStreakDays,
		&level, &stat.CreatedAt, &stat.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if streakStart.Valid {
		stat.StreakStartDate = streakStart.String
	}
	stat.ReadingLevel = models.ReadingLevel(level)
	return stat, nil
}
