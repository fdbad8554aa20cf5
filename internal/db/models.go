package db

import "time"

// Event is the persisted row for a normalized event. identity_key is the
// natural primary key so repeat runs converge on the same row.
type Event struct {
	IdentityKey  string     `gorm:"column:identity_key;primaryKey"`
	SourceID     string     `gorm:"column:source_id;not null;index:idx_events_source"`
	SourceRank   int        `gorm:"column:source_rank;not null;default:2"`
	Title        string     `gorm:"column:title;not null"`
	Description  string     `gorm:"column:description"`
	StartDate    *time.Time `gorm:"column:start_date;index:idx_events_city_start,priority:2"`
	EndDate      *time.Time `gorm:"column:end_date"`
	VenueName    string     `gorm:"column:venue_name;not null"`
	VenueAddress string     `gorm:"column:venue_address"`
	VenueCity    string     `gorm:"column:venue_city"`
	VenueRegion  string     `gorm:"column:venue_region"`
	City         string     `gorm:"column:city;not null;index:idx_events_city_start,priority:1"`
	Category     string     `gorm:"column:category"`
	URL          *string    `gorm:"column:url"`
	ImageURL     *string    `gorm:"column:image_url"`
	LastSeenAt   time.Time  `gorm:"column:last_seen_at;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}
