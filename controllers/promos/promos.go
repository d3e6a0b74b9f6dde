package promos

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

type UseRequest struct {
	Code string `json:"code"`
}

type UseResult struct {
	Code            string `json:"code"`
	TicketsReceived int    `json:"tickets_received"`
	NewBalance      int    `json:"new_balance"`
}

// Use redeems a promo code for the authenticated user. The checks run in a
// fixed order so each failure mode gets its own message, and the whole
// redemption is a single transaction over locked rows.
func Use(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var req UseRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "code is required")
	}

	var result UseResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var promo models.PromoCode
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND is_deleted = false", code).
			First(&promo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound("promo code not found")
			}
			return err
		}

		now := time.Now().UTC()
		if promo.IsExpired(now) {
			return helpers.BadRequest("this promo code has expired")
		}
		if !promo.IsActive {
			return helpers.BadRequest("this promo code is no longer active")
		}
		if promo.IsNotYetValid(now) {
			return helpers.BadRequest("this promo code is not valid yet")
		}

		if promo.IsSingleUsePerUser {
			var used int64
			if err := tx.Model(&models.PromoUse{}).
				Where("user_id = ? AND promo_code_id = ? AND is_deleted = false", user.ID, promo.ID).
				Count(&used).Error; err != nil {
				return err
			}
			if used > 0 {
				return helpers.BadRequest("you have already used this promo code")
			}
		}
		if promo.UsageLimit != nil && promo.CurrentUses >= *promo.UsageLimit {
			return helpers.BadRequest("this promo code has reached its usage limit")
		}
		if promo.IsSingleUseGlobal && promo.CurrentUses > 0 {
			return helpers.BadRequest("this promo code has already been used")
		}

		var locked models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", user.ID).
			First(&locked).Error; err != nil {
			return err
		}

		use := models.PromoUse{
			UserID:          locked.ID,
			PromoCodeID:     promo.ID,
			TicketsReceived: promo.TicketsReward,
		}
		if err := tx.Create(&use).Error; err != nil {
			return err
		}

		if err := tx.Model(&promo).Update("current_uses", promo.CurrentUses+1).Error; err != nil {
			return err
		}

		newBalance := locked.TicketsBalance + promo.TicketsReward
		if err := tx.Model(&locked).Update("tickets_balance", newBalance).Error; err != nil {
			return err
		}

		result = UseResult{
			Code:            promo.Code,
			TicketsReceived: promo.TicketsReward,
			NewBalance:      newBalance,
		}
		return nil
	})
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "promo code redeemed", result)
}

// AvailablePromo deliberately omits the code itself: the endpoint teases what
// a user could still redeem without handing out the codes.
type AvailablePromo struct {
	TicketsReward   int  `json:"tickets_reward"`
	DaysUntilExpiry int  `json:"days_until_expiry"`
	SingleUse       bool `json:"is_single_use_per_user"`
}

// Available lists the codes the authenticated user could redeem right now:
// inside their validity window, active, not exhausted and not already used by
// this user when single-use applies.
func Available(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	now := time.Now().UTC()

	var candidates []models.PromoCode
	if err := database.DB.
		Where("is_deleted = false AND is_active = true").
		Order("created_at DESC").
		Find(&candidates).Error; err != nil {
		return helpers.Fail(c, err)
	}

	available := make([]AvailablePromo, 0, len(candidates))
	for i := range candidates {
		promo := &candidates[i]
		if !promo.IsValidNow(now) {
			continue
		}
		if promo.UsageLimit != nil && promo.CurrentUses >= *promo.UsageLimit {
			continue
		}
		if promo.IsSingleUseGlobal && promo.CurrentUses > 0 {
			continue
		}
		if promo.IsSingleUsePerUser {
			var used int64
			if err := database.DB.Model(&models.PromoUse{}).
				Where("user_id = ? AND promo_code_id = ? AND is_deleted = false", user.ID, promo.ID).
				Count(&used).Error; err != nil {
				return helpers.Fail(c, err)
			}
			if used > 0 {
				continue
			}
		}
		available = append(available, AvailablePromo{
			TicketsReward:   promo.TicketsReward,
			DaysUntilExpiry: promo.DaysUntilExpiry(now),
			SingleUse:       promo.IsSingleUsePerUser,
		})
	}
	return helpers.JSONSuccess(c, "available promo codes", available)
}

type HistoryEntry struct {
	Code            string `json:"code"`
	TicketsReceived int    `json:"tickets_received"`
	UsedAt          string `json:"used_at"`
}

// History lists the user's past redemptions, most recent first.
func History(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var uses []models.PromoUse
	if err := database.DB.
		Where("user_id = ? AND is_deleted = false", user.ID).
		Order("created_at DESC").
		Find(&uses).Error; err != nil {
		return helpers.Fail(c, err)
	}

	entries := make([]HistoryEntry, 0, len(uses))
	for _, u := range uses {
		entry := HistoryEntry{
			TicketsReceived: u.TicketsReceived,
			UsedAt:          u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		var promo models.PromoCode
		if err := database.DB.First(&promo, u.PromoCodeID).Error; err == nil {
			entry.Code = promo.Code
		}
		entries = append(entries, entry)
	}
	return helpers.JSONSuccess(c, "promo history", entries)
}
