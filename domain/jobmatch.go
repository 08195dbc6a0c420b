package domain

import "time"

// JobMatch pairs one user's resume with one job description. The composite
// index on (user_id, resume_id, job_desc_hash) backs content-addressed
// deduplication: the hash column exists because MySQL cannot index the
// longtext column, and lookups still compare the full text after the hash
// narrows the candidates.
type JobMatch struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      uint  `gorm:"not null;index:idx_match_content,priority:1"`
	JobID       *uint `gorm:"index"`
	ResumeID    uint  `gorm:"not null;index:idx_match_content,priority:2"`
	JobDescID   *uint
	JobTitle    string  `gorm:"size:255"`
	JobDescText string  `gorm:"type:longtext;not null"`
	JobDescHash string  `gorm:"size:64;not null;index:idx_match_content,priority:3"`
	Score       float64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
}
