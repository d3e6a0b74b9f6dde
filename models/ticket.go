package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TicketOffer struct {
	Base

	Name          string          `gorm:"size:64;not null" json:"name"`
	TicketsAmount int             `gorm:"not null" json:"tickets_amount"`
	PriceEuros    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_euros"`
}

type TicketPurchase struct {
	Base

	UserID          uint            `gorm:"index;not null" json:"user_id"`
	OfferID         uint            `gorm:"index;not null" json:"offer_id"`
	TicketsReceived int             `gorm:"not null" json:"tickets_received"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	PaymentRef      string          `gorm:"size:64" json:"payment_ref"`
	PaymentMeta     datatypes.JSON  `json:"payment_meta,omitempty"`
}
