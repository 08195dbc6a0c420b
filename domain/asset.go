package domain

import "time"

type AssetType string

const (
	AssetResume   AssetType = "RESUME"
	AssetJobDesc  AssetType = "JOB_DESC"
	AssetAnalysis AssetType = "ANALYSIS"
)

// Asset is a stored document reference: an opaque URL plus a type tag.
type Asset struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	URL       string    `gorm:"size:1024;not null"`
	Type      AssetType `gorm:"size:32;not null"`
	CreatedAt time.Time
}
