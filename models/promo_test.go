package models

import (
	"testing"
	"time"
)

func TestPromoCodeValidityWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)

	promo := PromoCode{IsActive: true, ValidFrom: &from, ValidUntil: &until}
	if !promo.IsValidNow(now) {
		t.Fatal("code inside its window should be valid")
	}
	if promo.IsExpired(now) || promo.IsNotYetValid(now) {
		t.Fatal("code inside its window is neither expired nor pending")
	}

	if !promo.IsExpired(now.Add(2 * time.Hour)) {
		t.Fatal("code past valid_until should be expired")
	}
	if !promo.IsNotYetValid(now.Add(-2 * time.Hour)) {
		t.Fatal("code before valid_from should be pending")
	}
}

func TestPromoCodeWithoutWindowAlwaysValid(t *testing.T) {
	now := time.Now().UTC()
	promo := PromoCode{IsActive: true}

	if !promo.IsValidNow(now) {
		t.Fatal("code without dates should be valid while active")
	}
	promo.IsActive = false
	if promo.IsValidNow(now) {
		t.Fatal("deactivated code should not be valid")
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	promo := PromoCode{}
	if got := promo.DaysUntilExpiry(now); got != -1 {
		t.Fatalf("no expiry should report -1, got %d", got)
	}

	until := now.Add(72 * time.Hour)
	promo.ValidUntil = &until
	if got := promo.DaysUntilExpiry(now); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}

	past := now.Add(-time.Hour)
	promo.ValidUntil = &past
	if got := promo.DaysUntilExpiry(now); got != 0 {
		t.Fatalf("expired code should report 0, got %d", got)
	}
}
