package tickets

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

// Offers lists the purchasable ticket packs. Public, no auth required.
func Offers(c *fiber.Ctx) error {
	var offers []models.TicketOffer
	if err := database.DB.
		Where("is_deleted = false").
		Order("tickets_amount").
		Find(&offers).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "ticket offers", offers)
}

type PurchaseRequest struct {
	OfferID uint `json:"offer_id"`
}

type PurchaseResult struct {
	PurchaseID      uint   `json:"purchase_id"`
	TicketsReceived int    `json:"tickets_received"`
	AmountPaid      string `json:"amount_paid"`
	PaymentRef      string `json:"payment_ref"`
	NewBalance      int    `json:"new_balance"`
}

// Purchase buys a ticket offer and credits the balance. Payment is simulated:
// a reference is generated and the capture metadata is stored alongside the
// purchase row.
func Purchase(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var req PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var offer models.TicketOffer
	if err := database.DB.
		Where("id = ? AND is_deleted = false", req.OfferID).
		First(&offer).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "ticket offer not found")
	}

	var result PurchaseResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var locked models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", user.ID).
			First(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound("user not found")
			}
			return err
		}

		meta, _ := json.Marshal(map[string]any{
			"provider":    "simulated",
			"captured_at": time.Now().UTC(),
			"offer_name":  offer.Name,
			"price_euros": offer.PriceEuros,
		})

		purchase := models.TicketPurchase{
			UserID:          locked.ID,
			OfferID:         offer.ID,
			TicketsReceived: offer.TicketsAmount,
			AmountPaid:      offer.PriceEuros,
			PaymentRef:      helpers.NewPaymentRef(),
			PaymentMeta:     datatypes.JSON(meta),
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		newBalance := locked.TicketsBalance + offer.TicketsAmount
		if err := tx.Model(&locked).Update("tickets_balance", newBalance).Error; err != nil {
			return err
		}

		result = PurchaseResult{
			PurchaseID:      purchase.ID,
			TicketsReceived: purchase.TicketsReceived,
			AmountPaid:      offer.PriceEuros.StringFixed(2),
			PaymentRef:      purchase.PaymentRef,
			NewBalance:      newBalance,
		}
		return nil
	})
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "purchase completed", result)
}

// Balance returns the current ticket balance.
func Balance(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	return helpers.JSONSuccess(c, "tickets balance", fiber.Map{
		"tickets_balance": user.TicketsBalance,
	})
}

// History lists the user's past purchases, most recent first.
func History(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var purchases []models.TicketPurchase
	if err := database.DB.
		Where("user_id = ? AND is_deleted = false", user.ID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "purchase history", purchases)
}
