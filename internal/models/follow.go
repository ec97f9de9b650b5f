package models

import "time"

// Follow links a user to an organization whose items show up in the
// user's default feed.
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_user_org"`
	OrgID     string    `json:"org_id" gorm:"index;uniqueIndex:idx_user_org"`
	CreatedAt time.Time `json:"created_at"`
}
