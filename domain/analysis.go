package domain

import "time"

// JobMatchAnalysis records the deep analysis outcome for exactly one
// JobMatch. The unique index enforces the at-most-one-row-per-match
// invariant; retried analyses update this row in place.
type JobMatchAnalysis struct {
	ID            uint           `gorm:"primaryKey"`
	JobMatchID    uint           `gorm:"uniqueIndex;not null"`
	ResultAssetID *uint
	StatusCode    AnalysisStatus `gorm:"type:smallint;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
