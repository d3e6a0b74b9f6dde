package models

type ReservationStatus string

const (
	ReservationWaiting   ReservationStatus = "waiting"
	ReservationPlaying   ReservationStatus = "playing"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	Base

	PlayerID    uint              `gorm:"index;not null" json:"player_id"`
	Player2ID   *uint             `gorm:"index" json:"player2_id"`
	ArcadeID    uint              `gorm:"index;not null" json:"arcade_id"`
	GameID      uint              `gorm:"index;not null" json:"game_id"`
	UnlockCode  string            `gorm:"size:1;not null" json:"unlock_code"`
	Status      ReservationStatus `gorm:"size:16;default:waiting;index" json:"status"`
	TicketsUsed int               `gorm:"not null" json:"tickets_used"`
}

// IsActive reports whether the reservation still occupies the arcade queue.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationWaiting || r.Status == ReservationPlaying
}
