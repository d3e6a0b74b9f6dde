package models

type Arcade struct {
	Base

	Name        string  `gorm:"size:128;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	APIKey      string  `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Location    string  `gorm:"size:255;not null" json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	ArcadeGames []ArcadeGame `gorm:"foreignKey:ArcadeID" json:"-"`
}

// ArcadeGame binds one game to one of the two physical slots of a terminal.
// Slot replacement hard-deletes the stale row before inserting the new one,
// so at most one live assignment exists per (arcade, slot).
type ArcadeGame struct {
	Base

	ArcadeID   uint `gorm:"index;not null" json:"arcade_id"`
	GameID     uint `gorm:"index;not null" json:"game_id"`
	SlotNumber int  `gorm:"not null" json:"slot_number"`
}
