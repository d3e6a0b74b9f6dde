package reservations

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

type CreateRequest struct {
	ArcadeID  uint  `json:"arcade_id"`
	GameID    uint  `json:"game_id"`
	Player2ID *uint `json:"player_2_id"`
}

type ReservationView struct {
	ID          uint   `json:"id"`
	ArcadeID    uint   `json:"arcade_id"`
	ArcadeName  string `json:"arcade_name"`
	GameID      uint   `json:"game_id"`
	GameName    string `json:"game_name"`
	PlayerID    uint   `json:"player_id"`
	Player2ID   *uint  `json:"player_2_id,omitempty"`
	UnlockCode  string `json:"unlock_code"`
	Status      string `json:"status"`
	TicketsUsed int    `json:"tickets_used"`
	Position    *int   `json:"position,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Create books a game session at an arcade. The primary player pays the full
// ticket cost; an optional second player plays for free. The new reservation
// joins the arcade's FIFO queue and gets a one-digit unlock code the terminal
// will ask for.
func Create(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var arcade models.Arcade
	if err := database.DB.
		Where("id = ? AND is_deleted = false", req.ArcadeID).
		First(&arcade).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "arcade not found")
	}

	var assignment models.ArcadeGame
	if err := database.DB.
		Where("arcade_id = ? AND game_id = ? AND is_deleted = false", req.ArcadeID, req.GameID).
		First(&assignment).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "this game is not available at this arcade")
	}

	var game models.Game
	if err := database.DB.
		Where("id = ? AND is_deleted = false", req.GameID).
		First(&game).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "game not found")
	}

	playerCount := 1
	if req.Player2ID != nil {
		playerCount = 2
	}
	if playerCount < game.MinPlayers || playerCount > game.MaxPlayers {
		return helpers.JSONError(c, fiber.StatusBadRequest, fmt.Sprintf(
			"this game requires between %d and %d players", game.MinPlayers, game.MaxPlayers))
	}

	if req.Player2ID != nil {
		if *req.Player2ID == user.ID {
			return helpers.JSONError(c, fiber.StatusBadRequest, "you cannot invite yourself as second player")
		}
		var player2 models.User
		if err := database.DB.
			Where("id = ? AND is_deleted = false", *req.Player2ID).
			First(&player2).Error; err != nil {
			return helpers.JSONError(c, fiber.StatusNotFound, "second player not found")
		}
	}

	var reservation models.Reservation
	var position int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payer models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", user.ID).
			First(&payer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound("user not found")
			}
			return err
		}

		if payer.TicketsBalance < game.TicketCost {
			return helpers.BadRequest(fmt.Sprintf(
				"insufficient tickets: this game costs %d, you have %d",
				game.TicketCost, payer.TicketsBalance))
		}

		if err := tx.Model(&payer).
			Update("tickets_balance", payer.TicketsBalance-game.TicketCost).Error; err != nil {
			return err
		}

		reservation = models.Reservation{
			PlayerID:    payer.ID,
			Player2ID:   req.Player2ID,
			ArcadeID:    req.ArcadeID,
			GameID:      req.GameID,
			UnlockCode:  strconv.Itoa(rand.Intn(8) + 1),
			Status:      models.ReservationWaiting,
			TicketsUsed: game.TicketCost,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		pos, err := queuePosition(tx, &reservation)
		if err != nil {
			return err
		}
		position = pos
		return nil
	})
	if err != nil {
		return helpers.Fail(c, err)
	}

	view := buildView(&reservation, &arcade, &game)
	view.Position = &position
	return helpers.JSONSuccess(c, "reservation created", view)
}

// ListMine returns the user's reservations, newest first, with the queue
// position filled in for the waiting ones.
func ListMine(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var reservations []models.Reservation
	if err := database.DB.
		Where("(player_id = ? OR player2_id = ?) AND is_deleted = false", user.ID, user.ID).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return helpers.Fail(c, err)
	}

	views := make([]ReservationView, 0, len(reservations))
	for i := range reservations {
		view, err := loadView(&reservations[i])
		if err != nil {
			return helpers.Fail(c, err)
		}
		views = append(views, *view)
	}
	return helpers.JSONSuccess(c, "my reservations", views)
}

// Get returns one reservation the user takes part in, as primary or second
// player.
func Get(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	reservationID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid reservation id")
	}

	var reservation models.Reservation
	if err := database.DB.
		Where("id = ? AND (player_id = ? OR player2_id = ?) AND is_deleted = false",
			reservationID, user.ID, user.ID).
		First(&reservation).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "reservation not found")
	}

	view, viewErr := loadView(&reservation)
	if viewErr != nil {
		return helpers.Fail(c, viewErr)
	}
	return helpers.JSONSuccess(c, "reservation details", view)
}

// Cancel aborts a waiting reservation and refunds the primary player. Only
// the primary player may cancel, and only before the session starts.
func Cancel(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	reservationID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid reservation id")
	}

	var refunded int
	var newBalance int
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", reservationID).
			First(&reservation).Error; err != nil {
			return helpers.NotFound("reservation not found")
		}

		if reservation.PlayerID != user.ID {
			return helpers.Forbidden("only the player who booked can cancel")
		}
		if reservation.Status != models.ReservationWaiting {
			return helpers.BadRequest(fmt.Sprintf(
				"a reservation in status %q cannot be cancelled", reservation.Status))
		}

		var payer models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payer, reservation.PlayerID).Error; err != nil {
			return err
		}

		reservation.Status = models.ReservationCancelled
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}

		newBalance = payer.TicketsBalance + reservation.TicketsUsed
		if err := tx.Model(&payer).Update("tickets_balance", newBalance).Error; err != nil {
			return err
		}
		refunded = reservation.TicketsUsed
		return nil
	})
	if txErr != nil {
		return helpers.Fail(c, txErr)
	}

	return helpers.JSONSuccess(c, "reservation cancelled", fiber.Map{
		"refunded_tickets": refunded,
		"new_balance":      newBalance,
	})
}

// queuePosition is the 1-based rank in the arcade's waiting queue, ordered by
// creation time.
func queuePosition(db *gorm.DB, r *models.Reservation) (int, error) {
	var ahead int64
	err := db.Model(&models.Reservation{}).
		Where("arcade_id = ? AND status = ? AND is_deleted = false AND created_at <= ?",
			r.ArcadeID, models.ReservationWaiting, r.CreatedAt).
		Count(&ahead).Error
	return int(ahead), err
}

func loadView(r *models.Reservation) (*ReservationView, error) {
	var arcade models.Arcade
	if err := database.DB.First(&arcade, r.ArcadeID).Error; err != nil {
		return nil, err
	}
	var game models.Game
	if err := database.DB.First(&game, r.GameID).Error; err != nil {
		return nil, err
	}

	view := buildView(r, &arcade, &game)
	if r.Status == models.ReservationWaiting {
		pos, err := queuePosition(database.DB, r)
		if err != nil {
			return nil, err
		}
		view.Position = &pos
	}
	return view, nil
}

func buildView(r *models.Reservation, arcade *models.Arcade, game *models.Game) *ReservationView {
	return &ReservationView{
		ID:          r.ID,
		ArcadeID:    arcade.ID,
		ArcadeName:  arcade.Name,
		GameID:      game.ID,
		GameName:    game.Name,
		PlayerID:    r.PlayerID,
		Player2ID:   r.Player2ID,
		UnlockCode:  r.UnlockCode,
		Status:      string(r.Status),
		TicketsUsed: r.TicketsUsed,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
