package models

import "time"

// Base carries the columns shared by every table: primary key, timestamps and
// the soft-delete pair. Soft delete is an explicit flag rather than
// gorm.DeletedAt because admin endpoints list, restore and report deleted rows;
// every live query filters is_deleted = false itself.
type Base struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	IsDeleted bool       `gorm:"default:false;index" json:"is_deleted"`
}

// SoftDelete flips the flag and stamps the deletion time.
func (b *Base) SoftDelete(at time.Time) {
	b.IsDeleted = true
	b.DeletedAt = &at
}

// Restore clears the soft-delete marker.
func (b *Base) Restore() {
	b.IsDeleted = false
	b.DeletedAt = nil
}
