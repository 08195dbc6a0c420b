package domain

import "time"

// Job is a stored job listing that a match can reference instead of
// providing raw job description text.
type Job struct {
	ID             uint   `gorm:"primaryKey"`
	JobTitle       string `gorm:"size:255;not null"`
	CompanyName    string `gorm:"size:255"`
	JobDescription string `gorm:"type:text"`
	Location       string `gorm:"size:255"`
	SeniorityLevel string `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
