package domain

import "time"

// GuestUser identifies a caller. The hash is an opaque per-user value used
// to namespace uploaded artifacts.
type GuestUser struct {
	ID        uint   `gorm:"primaryKey"`
	Hash      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}
