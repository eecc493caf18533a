package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product is one sellable connectivity package. Rows are keyed by
// package_code so a re-import updates in place instead of duplicating.
type Product struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	PackageCode  string            `gorm:"type:text;not null;uniqueIndex" json:"package_code"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Category     string            `gorm:"type:text" json:"category,omitempty"`
	DownloadMbps int64             `json:"download_mbps,omitempty"`
	UploadMbps   int64             `json:"upload_mbps,omitempty"`
	MonthlyPrice int64             `gorm:"not null" json:"monthly_price"`
	SetupFee     int64             `gorm:"not null;default:0" json:"setup_fee"`
	Currency     string            `gorm:"type:text;not null;default:'ZAR'" json:"currency"`
	Provider     string            `gorm:"type:text" json:"provider,omitempty"`
	Active       bool              `gorm:"not null;default:true" json:"active"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
