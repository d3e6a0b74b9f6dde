package arcades

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/models"
)

type SlotGame struct {
	SlotNumber int    `json:"slot_number"`
	GameID     uint   `json:"game_id"`
	GameName   string `json:"game_name"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
	TicketCost int    `json:"ticket_cost"`
}

type ArcadeView struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Games       []SlotGame `json:"games"`
}

// List returns every live arcade with the games installed on its slots.
func List(c *fiber.Ctx) error {
	var arcades []models.Arcade
	if err := database.DB.
		Where("is_deleted = false").
		Order("name").
		Find(&arcades).Error; err != nil {
		return helpers.Fail(c, err)
	}

	views := make([]ArcadeView, 0, len(arcades))
	for i := range arcades {
		view, err := buildView(&arcades[i])
		if err != nil {
			return helpers.Fail(c, err)
		}
		views = append(views, *view)
	}
	return helpers.JSONSuccess(c, "arcades list", views)
}

// Get returns one arcade with its slot games.
func Get(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	var arcade models.Arcade
	if err := database.DB.
		Where("id = ? AND is_deleted = false", arcadeID).
		First(&arcade).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "arcade not found")
	}

	view, buildErr := buildView(&arcade)
	if buildErr != nil {
		return helpers.Fail(c, buildErr)
	}
	return helpers.JSONSuccess(c, "arcade details", view)
}

func buildView(arcade *models.Arcade) (*ArcadeView, error) {
	slots, err := slotGames(arcade.ID)
	if err != nil {
		return nil, err
	}
	return &ArcadeView{
		ID:          arcade.ID,
		Name:        arcade.Name,
		Description: arcade.Description,
		Location:    arcade.Location,
		Latitude:    arcade.Latitude,
		Longitude:   arcade.Longitude,
		Games:       slots,
	}, nil
}

func slotGames(arcadeID uint) ([]SlotGame, error) {
	type row struct {
		SlotNumber int
		GameID     uint
		Name       string
		MinPlayers int
		MaxPlayers int
		TicketCost int
	}
	var rows []row
	err := database.DB.Model(&models.ArcadeGame{}).
		Select("arcade_games.slot_number, games.id AS game_id, games.name, games.min_players, games.max_players, games.ticket_cost").
		Joins("JOIN games ON games.id = arcade_games.game_id").
		Where("arcade_games.arcade_id = ? AND arcade_games.is_deleted = false AND games.is_deleted = false", arcadeID).
		Order("arcade_games.slot_number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	slots := make([]SlotGame, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, SlotGame{
			SlotNumber: r.SlotNumber,
			GameID:     r.GameID,
			GameName:   r.Name,
			MinPlayers: r.MinPlayers,
			MaxPlayers: r.MaxPlayers,
			TicketCost: r.TicketCost,
		})
	}
	return slots, nil
}
