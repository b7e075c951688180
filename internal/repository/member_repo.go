package repository

import (
	"database/sql"

	"hekaya/internal/database"
	"hekaya/internal/models"
)

// MemberRepository handles member account rows
type MemberRepository struct {
	db database.DBTX
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db database.DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a member and returns the new ID.
func (r *MemberRepository) Create(name string) (int64, error) {
	query := "INSERT INTO members (name) VALUES (?)"
	return r.db.ExecReturningID(query, name)
}

// GetByID retrieves a member, or nil when it doesn't exist.
func (r *MemberRepository) GetByID(id int64) (*models.Member, error) {
	query := `
		SELECT id, name, joined_at, created_at, updated_at
		FROM members
		WHERE id = ?
	`

	m := &models.Member{}
	err := r.db.QueryRow(query, id).Scan(
		&m.ID, &m.Name, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Exists reports whether a member row exists.
func (r *MemberRepository) Exists(id int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM members WHERE id = ?"
	err := r.db.QueryRow(query, id).Scan(&count)
	return count > 0, err
}
