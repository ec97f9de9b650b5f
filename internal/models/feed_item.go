package models

import (
	"encoding/json"
	"time"
)

// FeedKind identifies the type of content an organization published.
type FeedKind string

const (
	KindEvent   FeedKind = "EVENT"
	KindNews    FeedKind = "NEWS"
	KindProject FeedKind = "PROJECT"
)

// Valid reports whether k is one of the known feed kinds.
func (k FeedKind) Valid() bool {
	switch k {
	case KindEvent, KindNews, KindProject:
		return true
	}
	return false
}

// FeedItem is a single organization-published unit of content.
//
// Location holds a WKT "POINT(lon lat)" string rather than a proper
// geography column; it is parsed at read time. An item without a
// location never appears on the map.
type FeedItem struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	OrganizationID string          `json:"organization_id" gorm:"not null;index"`
	Kind           FeedKind        `json:"kind" gorm:"not null;type:varchar(16);index"`
	Title          string          `json:"title" gorm:"not null"`
	Summary        *string         `json:"summary,omitempty"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	Location       *string         `json:"location,omitempty"`
	StartsAt       *time.Time      `json:"starts_at,omitempty"`
	EndsAt         *time.Time      `json:"ends_at,omitempty"`
	URL            *string         `json:"url,omitempty"`
	ImageURL       *string         `json:"image_url,omitempty"`
	Data           json.RawMessage `json:"data,omitempty" gorm:"type:jsonb"`
	IsPublished    bool            `json:"is_published" gorm:"not null;default:false;index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
