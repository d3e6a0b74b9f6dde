package arcades

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/models"
)

type QueueEntry struct {
	Position      uint   `json:"position"`
	ReservationID uint   `json:"reservation_id"`
	PlayerID      uint   `json:"player_id"`
	PlayerPseudo  string `json:"player_pseudo"`
	Player2Pseudo string `json:"player_2_pseudo,omitempty"`
	GameID        uint   `json:"game_id"`
	GameName      string `json:"game_name"`
	UnlockCode    string `json:"unlock_code"`
}

// Queue returns the waiting reservations for a terminal, oldest first. The
// terminal polls this endpoint and displays the next player's unlock code.
func Queue(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	if _, err := liveArcade(uint(arcadeID)); err != nil {
		return helpers.Fail(c, err)
	}

	var reservations []models.Reservation
	if err := database.DB.
		Where("arcade_id = ? AND status = ? AND is_deleted = false",
			arcadeID, models.ReservationWaiting).
		Order("created_at").
		Find(&reservations).Error; err != nil {
		return helpers.Fail(c, err)
	}

	entries := make([]QueueEntry, 0, len(reservations))
	for i, r := range reservations {
		entry := QueueEntry{
			Position:      uint(i + 1),
			ReservationID: r.ID,
			PlayerID:      r.PlayerID,
			GameID:        r.GameID,
			UnlockCode:    r.UnlockCode,
		}

		var player models.User
		if err := database.DB.First(&player, r.PlayerID).Error; err == nil {
			entry.PlayerPseudo = player.Pseudo
		}
		if r.Player2ID != nil {
			var player2 models.User
			if err := database.DB.First(&player2, *r.Player2ID).Error; err == nil {
				entry.Player2Pseudo = player2.Pseudo
			}
		}
		var game models.Game
		if err := database.DB.First(&game, r.GameID).Error; err == nil {
			entry.GameName = game.Name
		}

		entries = append(entries, entry)
	}

	return helpers.JSONSuccess(c, "arcade queue", fiber.Map{
		"arcade_id": arcadeID,
		"queue":     entries,
	})
}

type SlotConfig struct {
	SlotNumber int    `json:"slot_number"`
	GameID     uint   `json:"game_id"`
	GameName   string `json:"game_name"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
	TicketCost int    `json:"ticket_cost"`
}

// Config returns the slot layout a terminal boots with.
func Config(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	arcade, liveErr := liveArcade(uint(arcadeID))
	if liveErr != nil {
		return helpers.Fail(c, liveErr)
	}

	slots, slotErr := slotGames(arcade.ID)
	if slotErr != nil {
		return helpers.Fail(c, slotErr)
	}

	configs := make([]SlotConfig, 0, len(slots))
	for _, s := range slots {
		configs = append(configs, SlotConfig(s))
	}
	return helpers.JSONSuccess(c, "arcade configuration", fiber.Map{
		"arcade_id":   arcade.ID,
		"arcade_name": arcade.Name,
		"slots":       configs,
	})
}

func liveArcade(arcadeID uint) (*models.Arcade, error) {
	var arcade models.Arcade
	if err := database.DB.
		Where("id = ? AND is_deleted = false", arcadeID).
		First(&arcade).Error; err != nil {
		return nil, helpers.NotFound("arcade not found")
	}
	return &arcade, nil
}
