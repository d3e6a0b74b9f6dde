package models

import "time"

type User struct {
	Base

	AuthUID        string    `gorm:"uniqueIndex;size:128;not null" json:"auth_uid"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName      string    `gorm:"size:64;not null" json:"first_name"`
	LastName       string    `gorm:"size:64;not null" json:"last_name"`
	Pseudo         string    `gorm:"uniqueIndex;size:32;not null" json:"pseudo"`
	BirthDate      time.Time `json:"birth_date"`
	PhoneNumber    string    `gorm:"uniqueIndex;size:32;not null" json:"phone_number"`
	TicketsBalance int       `gorm:"default:0;not null" json:"tickets_balance"`

	Reservations    []Reservation    `gorm:"foreignKey:PlayerID" json:"-"`
	TicketPurchases []TicketPurchase `gorm:"foreignKey:UserID" json:"-"`
	PromoUses       []PromoUse       `gorm:"foreignKey:UserID" json:"-"`
}
