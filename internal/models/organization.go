package models

import "time"

// OrgStatus is the moderation state of an organization.
type OrgStatus string

const (
	OrgStatusPending   OrgStatus = "pending"
	OrgStatusApproved  OrgStatus = "approved"
	OrgStatusRejected  OrgStatus = "rejected"
	OrgStatusSuspended OrgStatus = "suspended"
)

// Organization publishes feed items. Only approved organizations are
// visible through the feed, on every query path.
type Organization struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	PrimaryColor *string   `json:"primary_color,omitempty"`
	Status       OrgStatus `json:"status" gorm:"not null;type:varchar(16);index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
