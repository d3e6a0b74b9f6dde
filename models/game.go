package models

type Game struct {
	Base

	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	MinPlayers  int    `gorm:"not null" json:"min_players"`
	MaxPlayers  int    `gorm:"not null" json:"max_players"`
	TicketCost  int    `gorm:"not null" json:"ticket_cost"`
}
