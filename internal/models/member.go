package models

import "time"

// Member represents a reader account in the system
type Member struct {
	ID        int64
	Name      string
	JoinedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
