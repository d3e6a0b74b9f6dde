package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"retronova/helpers"
	"retronova/models"
)

type GameService struct {
	db *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{db: db}
}

type CreateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MinPlayers  int    `json:"min_players"`
	MaxPlayers  int    `json:"max_players"`
	TicketCost  int    `json:"ticket_cost"`
}

func (s *GameService) Create(req CreateGameRequest) (*models.Game, error) {
	if req.MinPlayers == 0 {
		req.MinPlayers = 1
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = 2
	}
	if err := validatePlayerRange(req.MinPlayers, req.MaxPlayers); err != nil {
		return nil, err
	}
	if req.TicketCost < 0 {
		return nil, helpers.BadRequest("ticket cost cannot be negative")
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		return nil, helpers.BadRequest("game name must be at least 2 characters")
	}
	if err := s.checkNameUnique(req.Name, 0); err != nil {
		return nil, err
	}

	game := models.Game{
		Name:        req.Name,
		Description: req.Description,
		MinPlayers:  req.MinPlayers,
		MaxPlayers:  req.MaxPlayers,
		TicketCost:  req.TicketCost,
	}
	if err := s.db.Create(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *GameService) List(includeDeleted bool) ([]models.Game, error) {
	query := s.db.Order("created_at DESC")
	if !includeDeleted {
		query = query.Where("is_deleted = false")
	}
	var games []models.Game
	err := query.Find(&games).Error
	return games, err
}

func (s *GameService) Get(gameID uint) (*models.Game, error) {
	return s.getLive(gameID)
}

// UpdateGameRequest is an optional-field patch: only non-nil fields are
// applied to the stored game.
type UpdateGameRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MinPlayers  *int    `json:"min_players"`
	MaxPlayers  *int    `json:"max_players"`
	TicketCost  *int    `json:"ticket_cost"`
}

func (s *GameService) Update(gameID uint, req UpdateGameRequest) (*models.Game, error) {
	game, err := s.getLive(gameID)
	if err != nil {
		return nil, err
	}

	minPlayers := game.MinPlayers
	maxPlayers := game.MaxPlayers
	if req.MinPlayers != nil {
		minPlayers = *req.MinPlayers
	}
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}
	if err := validatePlayerRange(minPlayers, maxPlayers); err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != game.Name {
		if err := s.checkNameUnique(*req.Name, gameID); err != nil {
			return nil, err
		}
		game.Name = *req.Name
	}
	if req.Description != nil {
		game.Description = *req.Description
	}
	if req.TicketCost != nil {
		if *req.TicketCost < 0 {
			return nil, helpers.BadRequest("ticket cost cannot be negative")
		}
		game.TicketCost = *req.TicketCost
	}
	game.MinPlayers = minPlayers
	game.MaxPlayers = maxPlayers

	if err := s.db.Save(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

type GameDeletionResult struct {
	GameID              uint   `json:"game_id"`
	Name                string `json:"name"`
	DeletedAssociations int64  `json:"deleted_arcade_associations"`
}

func (s *GameService) SoftDelete(gameID uint) (*GameDeletionResult, error) {
	game, err := s.getLive(gameID)
	if err != nil {
		return nil, err
	}

	var active int64
	s.db.Model(&models.Reservation{}).
		Where("game_id = ? AND status IN ? AND is_deleted = false",
			gameID, []models.ReservationStatus{models.ReservationWaiting, models.ReservationPlaying}).
		Count(&active)
	if active > 0 {
		return nil, helpers.BadRequest(fmt.Sprintf(
			"cannot delete game: %d active reservation(s)", active))
	}

	var result GameDeletionResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		game.SoftDelete(now)
		if err := tx.Save(game).Error; err != nil {
			return err
		}

		assoc := tx.Model(&models.ArcadeGame{}).
			Where("game_id = ? AND is_deleted = false", gameID).
			Updates(map[string]any{"is_deleted": true, "deleted_at": now})
		if assoc.Error != nil {
			return assoc.Error
		}

		result = GameDeletionResult{
			GameID:              game.ID,
			Name:                game.Name,
			DeletedAssociations: assoc.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *GameService) ListDeleted() ([]models.Game, error) {
	var games []models.Game
	err := s.db.Where("is_deleted = true").Order("deleted_at DESC").Find(&games).Error
	return games, err
}

// Restore revives a deleted game. Arcade slot assignments are not restored
// automatically; the admin reassigns slots by hand to avoid conflicts.
func (s *GameService) Restore(gameID uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		return nil, helpers.NotFound("game not found")
	}
	if !game.IsDeleted {
		return nil, helpers.BadRequest("this game is not deleted")
	}

	game.Restore()
	if err := s.db.Save(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

type GameStats struct {
	GameID           uint             `json:"game_id"`
	GameName         string           `json:"game_name"`
	PeriodDays       int              `json:"period_days"`
	ReservationStats map[string]any   `json:"reservation_stats"`
	ScoreStats       map[string]any   `json:"score_stats"`
	RevenueStats     map[string]any   `json:"revenue_stats"`
	ArcadePopularity []map[string]any `json:"arcade_popularity"`
}

func (s *GameService) Stats(gameID uint, days int) (*GameStats, error) {
	game, err := s.getLive(gameID)
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var total, completed int64
	s.db.Model(&models.Reservation{}).
		Where("game_id = ? AND created_at >= ? AND is_deleted = false", gameID, since).
		Count(&total)
	s.db.Model(&models.Reservation{}).
		Where("game_id = ? AND status = ? AND created_at >= ? AND is_deleted = false",
			gameID, models.ReservationCompleted, since).
		Count(&completed)

	var played int64
	var avgScore float64
	s.db.Model(&models.Score{}).
		Where("game_id = ? AND created_at >= ? AND is_deleted = false", gameID, since).
		Count(&played)
	s.db.Model(&models.Score{}).
		Where("game_id = ? AND created_at >= ? AND is_deleted = false", gameID, since).
		Select("COALESCE(AVG(score_j1), 0)").
		Scan(&avgScore)

	var ticketsSpent int64
	s.db.Model(&models.Reservation{}).
		Where("game_id = ? AND created_at >= ? AND is_deleted = false", gameID, since).
		Select("COALESCE(SUM(tickets_used), 0)").
		Scan(&ticketsSpent)

	type popularityRow struct {
		ArcadeID     uint
		ArcadeName   string
		Reservations int64
	}
	var rows []popularityRow
	s.db.Model(&models.Reservation{}).
		Select("arcades.id AS arcade_id, arcades.name AS arcade_name, COUNT(reservations.id) AS reservations").
		Joins("JOIN arcades ON arcades.id = reservations.arcade_id").
		Where("reservations.game_id = ? AND reservations.created_at >= ? AND reservations.is_deleted = false AND arcades.is_deleted = false",
			gameID, since).
		Group("arcades.id, arcades.name").
		Order("COUNT(reservations.id) DESC").
		Scan(&rows)

	popularity := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		popularity = append(popularity, map[string]any{
			"arcade_id":          row.ArcadeID,
			"arcade_name":        row.ArcadeName,
			"total_reservations": row.Reservations,
		})
	}

	completionRate := 0.0
	if total > 0 {
		completionRate = float64(completed) / float64(total) * 100
	}

	return &GameStats{
		GameID:     game.ID,
		GameName:   game.Name,
		PeriodDays: days,
		ReservationStats: map[string]any{
			"total_reservations":     total,
			"completed_reservations": completed,
			"completion_rate":        completionRate,
		},
		ScoreStats: map[string]any{
			"total_games_played":    played,
			"average_score_player1": avgScore,
		},
		RevenueStats: map[string]any{
			"total_tickets_spent": ticketsSpent,
			"tickets_per_game":    game.TicketCost,
		},
		ArcadePopularity: popularity,
	}, nil
}

type GameArcade struct {
	ArcadeID       uint   `json:"arcade_id"`
	ArcadeName     string `json:"arcade_name"`
	ArcadeLocation string `json:"arcade_location"`
	SlotNumber     int    `json:"slot_number"`
}

func (s *GameService) Arcades(gameID uint) ([]GameArcade, error) {
	if _, err := s.getLive(gameID); err != nil {
		return nil, err
	}

	type row struct {
		ArcadeID   uint
		Name       string
		Location   string
		SlotNumber int
	}
	var rows []row
	err := s.db.Model(&models.ArcadeGame{}).
		Select("arcades.id AS arcade_id, arcades.name, arcades.location, arcade_games.slot_number").
		Joins("JOIN arcades ON arcades.id = arcade_games.arcade_id").
		Where("arcade_games.game_id = ? AND arcade_games.is_deleted = false AND arcades.is_deleted = false", gameID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]GameArcade, 0, len(rows))
	for _, r := range rows {
		result = append(result, GameArcade{
			ArcadeID:       r.ArcadeID,
			ArcadeName:     r.Name,
			ArcadeLocation: r.Location,
			SlotNumber:     r.SlotNumber,
		})
	}
	return result, nil
}

func (s *GameService) getLive(gameID uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.Where("id = ? AND is_deleted = false", gameID).First(&game).Error; err != nil {
		return nil, helpers.NotFound("game not found")
	}
	return &game, nil
}

func (s *GameService) checkNameUnique(name string, excludeID uint) error {
	var count int64
	s.db.Model(&models.Game{}).
		Where("LOWER(name) = LOWER(?) AND is_deleted = false AND id <> ?", strings.TrimSpace(name), excludeID).
		Count(&count)
	if count > 0 {
		return helpers.BadRequest(fmt.Sprintf("a game named %q already exists", name))
	}
	return nil
}

func validatePlayerRange(minPlayers, maxPlayers int) error {
	if minPlayers < 1 || minPlayers > 8 {
		return helpers.BadRequest("minimum players must be between 1 and 8")
	}
	if maxPlayers < 1 || maxPlayers > 8 {
		return helpers.BadRequest("maximum players must be between 1 and 8")
	}
	if maxPlayers < minPlayers {
		return helpers.BadRequest("maximum players must be >= minimum players")
	}
	return nil
}
