package repository

import (
	"database/sql"
	"time"

	"hekaya/internal/database"
	"hekaya/internal/models"
)

// AchievementRepository handles achievement unlock rows
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// InsertUnlockIgnore creates an unlock row unless the (member, type, level)
// tuple already exists. Returns true when a new row was created. The unique
// constraint enforces at-most-one unlock even under concurrent evaluation.
func (r *AchievementRepository) InsertUnlockIgnore(u *models.AchievementUnlock) (bool, error) {
	query := r.db.GetDialect().InsertUnlockIgnore()
	result, err := r.db.Exec(query,
		u.MemberID, string(u.Type), u.Level, u.Title, u.PointsAwarded, u.AchievedAt)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetByID retrieves an unlock row, or nil when it doesn't exist.
func (r *AchievementRepository) GetByID(id int64) (*models.AchievementUnlock, error) {
	query := `
		SELECT id, member_id, achievement_type, level, title, points_awarded,
		       achieved_at, is_claimed, claimed_at
		FROM achievement_unlocks
		WHERE id = ?
	`
	return r.scanUnlock(r.db.QueryRow(query, id))
}

// ListByMember retrieves all unlocks for a member, newest first.
func (r *AchievementRepository) ListByMember(memberID int64) ([]models.AchievementUnlock, error) {
	query := `
		SELECT id, member_id, achievement_type, level, title, points_awarded,
		       achieved_at, is_claimed, claimed_at
		FROM achievement_unlocks
		WHERE member_id = ?
		ORDER BY achieved_at DESC, id DESC
	`
	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []models.AchievementUnlock
	for rows.Next() {
		u, err := r.scanUnlockRows(rows)
		if err != nil {
			return nil, err
		}
		unlocks = append(unlocks, *u)
	}
	return unlocks, rows.Err()
}

// UnlockedLevels returns the set of already-unlocked levels per type.
func (r *AchievementRepository) UnlockedLevels(memberID int64) (map[models.AchievementType]map[int]bool, error) {
	query := `
		SELECT achievement_type, level
		FROM achievement_unlocks
		WHERE member_id = ?
	`
	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unlocked := make(map[models.AchievementType]map[int]bool)
	for rows.Next() {
		var typ string
		var level int
		if err := rows.Scan(&typ, &level); err != nil {
			return nil, err
		}
		t := models.AchievementType(typ)
		if unlocked[t] == nil {
			unlocked[t] = make(map[int]bool)
		}
		unlocked[t][level] = true
	}
	return unlocked, rows.Err()
}

// MarkClaimed sets is_claimed on an unclaimed unlock. Returns false when the
// row was already claimed (the WHERE clause makes the claim idempotent at
// the database level).
func (r *AchievementRepository) MarkClaimed(id int64, at time.Time) (bool, error) {
	query := `
		UPDATE achievement_unlocks
		SET is_claimed = ?, claimed_at = ?
		WHERE id = ? AND is_claimed = ?
	`
	result, err := r.db.Exec(query, true, at, id, false)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountByMember returns the number of unlocks a member has earned.
func (r *AchievementRepository) CountByMember(memberID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM achievement_unlocks WHERE member_id = ?"
	err := r.db.QueryRow(query, memberID).Scan(&count)
	return count, err
}

// PopulationScores returns per-member achievement points earned since the
// given time, ordered by points with achievement count as the tie-break.
func (r *AchievementRepository) PopulationScores(from time.Time) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT a.member_id, m.name, COALESCE(SUM(a.points_awarded), 0) AS score, COUNT(*)
		FROM achievement_unlocks a
		JOIN members m ON m.id = a.member_id
		WHERE a.achieved_at >= ?
		GROUP BY a.member_id, m.name
		ORDER BY score DESC, COUNT(*) DESC
	`
	rows, err := r.db.Query(query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.MemberID, &e.MemberName, &e.Score, &e.AchievementCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *AchievementRepository) scanUnlock(row *sql.Row) (*models.AchievementUnlock, error) {
	u := &models.AchievementUnlock{}
	var typ string
	var claimedAt sql.NullTime

	err := row.Scan(&u.ID, &u.MemberID, &typ, &u.Level, &u.Title,
		&u.PointsAwarded, &u.AchievedAt, &u.IsClaimed, &claimedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Type = models.AchievementType(typ)
	if claimedAt.Valid {
		u.ClaimedAt = &claimedAt.Time
	}
	return u, nil
}

func (r *AchievementRepository) scanUnlockRows(rows *sql.Rows) (*models.AchievementUnlock, error) {
	u := &models.AchievementUnlock{}
	var typ string
	var claimedAt sql.NullTime

	err := rows.Scan(&u.ID, &u.MemberID, &typ, &u.Level, &u.Title,
		&u.PointsAwarded, &u.AchievedAt, &u.IsClaimed, &claimedAt)
	if err != nil {
		return nil, err
	}

	u.Type = models.AchievementType(typ)
	if claimedAt.Valid {
		u.ClaimedAt = &claimedAt.Time
	}
	return u, nil
}
