package models

import "time"

type PromoCode struct {
	Base

	Code               string     `gorm:"uniqueIndex;size:32;not null" json:"code"`
	TicketsReward      int        `gorm:"not null" json:"tickets_reward"`
	IsSingleUseGlobal  bool       `json:"is_single_use_global"`
	IsSingleUsePerUser bool       `json:"is_single_use_per_user"`
	UsageLimit         *int       `json:"usage_limit"`
	CurrentUses        int        `json:"current_uses"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
	IsActive           bool       `json:"is_active"`
}

// IsExpired reports whether the validity window has closed.
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ValidUntil != nil && now.UTC().After(p.ValidUntil.UTC())
}

// IsNotYetValid reports whether the validity window has not opened.
func (p *PromoCode) IsNotYetValid(now time.Time) bool {
	return p.ValidFrom != nil && now.UTC().Before(p.ValidFrom.UTC())
}

// IsValidNow combines the manual toggle with the validity window.
func (p *PromoCode) IsValidNow(now time.Time) bool {
	return p.IsActive && !p.IsExpired(now) && !p.IsNotYetValid(now)
}

// DaysUntilExpiry returns whole days left before expiry, 0 once expired and
// -1 for codes without an expiry date.
func (p *PromoCode) DaysUntilExpiry(now time.Time) int {
	if p.ValidUntil == nil {
		return -1
	}
	if p.IsExpired(now) {
		return 0
	}
	return int(p.ValidUntil.UTC().Sub(now.UTC()).Hours() / 24)
}

type PromoUse struct {
	Base

	UserID          uint `gorm:"index;not null" json:"user_id"`
	PromoCodeID     uint `gorm:"index;not null" json:"promo_code_id"`
	TicketsReceived int  `gorm:"not null" json:"tickets_received"`
}
