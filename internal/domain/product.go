package domain

import "time"

// Product is a catalog item synced from the external content feed.
// Records are never removed, deletion only flips the soft-delete marker.
type Product struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID  string     `gorm:"uniqueIndex;size:64" json:"external_id"`
	Name        string     `gorm:"index" json:"name"`
	Description string     `json:"description"`
	Price       *float64   `json:"price"` // nil when the feed entry carries no price
	Category    string     `gorm:"index" json:"category"`
	ImageURL    string     `gorm:"size:1024" json:"image_url"`
	IsDeleted   bool       `gorm:"index;default:false" json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ProductData is an unsaved product record as produced by the feed client,
// before the store assigns ID and timestamps.
type ProductData struct {
	ExternalID  string
	Name        string
	Description string
	Price       *float64
	Category    string
	ImageURL    string
	IsDeleted   bool
}
