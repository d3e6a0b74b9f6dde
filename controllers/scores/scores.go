package scores

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

type SubmitRequest struct {
	Player1ID uint  `json:"player_1_id"`
	Player2ID *uint `json:"player_2_id"`
	GameID    uint  `json:"game_id"`
	ArcadeID  uint  `json:"arcade_id"`
	ScoreJ1   int   `json:"score_j1"`
	ScoreJ2   *int  `json:"score_j2"`
}

// Submit records a finished game's result. Terminals call this with their API
// key. A two-player score needs both a second player and a second score; a
// solo score must carry neither.
func Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if (req.Player2ID == nil) != (req.ScoreJ2 == nil) {
		return helpers.JSONError(c, fiber.StatusBadRequest,
			"a two-player score needs both player_2_id and score_j2")
	}

	var player1 models.User
	if err := database.DB.
		Where("id = ? AND is_deleted = false", req.Player1ID).
		First(&player1).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "player 1 not found")
	}
	if req.Player2ID != nil {
		if *req.Player2ID == req.Player1ID {
			return helpers.JSONError(c, fiber.StatusBadRequest, "players must be different")
		}
		var player2 models.User
		if err := database.DB.
			Where("id = ? AND is_deleted = false", *req.Player2ID).
			First(&player2).Error; err != nil {
			return helpers.JSONError(c, fiber.StatusNotFound, "player 2 not found")
		}
	}

	var game models.Game
	if err := database.DB.
		Where("id = ? AND is_deleted = false", req.GameID).
		First(&game).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "game not found")
	}
	var arcade models.Arcade
	if err := database.DB.
		Where("id = ? AND is_deleted = false", req.ArcadeID).
		First(&arcade).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "arcade not found")
	}

	score := models.Score{
		Player1ID: req.Player1ID,
		Player2ID: req.Player2ID,
		GameID:    req.GameID,
		ArcadeID:  req.ArcadeID,
		ScoreJ1:   req.ScoreJ1,
		ScoreJ2:   req.ScoreJ2,
	}
	if err := database.DB.Create(&score).Error; err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.JSONSuccess(c, "score recorded", fiber.Map{
		"score_id": score.ID,
		"winner":   winnerOf(&score),
	})
}

// winnerOf names the winning side of a two-player score, or "solo" / "draw".
func winnerOf(s *models.Score) string {
	if s.IsSinglePlayer() {
		return "solo"
	}
	switch {
	case s.ScoreJ1 > *s.ScoreJ2:
		return "player_1"
	case s.ScoreJ1 < *s.ScoreJ2:
		return "player_2"
	default:
		return "draw"
	}
}

// List returns the authenticated user's visible scores with optional filters:
// game_id, arcade_id, friends_only, single_player_only, limit.
func List(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	limit := c.QueryInt("limit", 20)
	if limit > 100 {
		limit = 100
	}

	query := database.DB.Where("scores.is_deleted = false")
	if gameID := c.QueryInt("game_id", 0); gameID > 0 {
		query = query.Where("scores.game_id = ?", gameID)
	}
	if arcadeID := c.QueryInt("arcade_id", 0); arcadeID > 0 {
		query = query.Where("scores.arcade_id = ?", arcadeID)
	}
	if c.QueryBool("single_player_only", false) {
		query = query.Where("scores.player2_id IS NULL")
	}

	if c.QueryBool("friends_only", false) {
		friendIDs, err := acceptedFriendIDs(user.ID)
		if err != nil {
			return helpers.Fail(c, err)
		}
		visible := append(friendIDs, user.ID)
		query = query.Where("scores.player1_id IN ? OR scores.player2_id IN ?", visible, visible)
	} else {
		query = query.Where("scores.player1_id = ? OR scores.player2_id = ?", user.ID, user.ID)
	}

	var scores []models.Score
	if err := query.Order("scores.created_at DESC").Limit(limit).Find(&scores).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "scores list", scores)
}

type PlayerStats struct {
	TotalGames  int64   `json:"total_games"`
	SoloGames   int64   `json:"solo_games"`
	MultiGames  int64   `json:"multiplayer_games"`
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
	Draws       int64   `json:"draws"`
	WinRate     float64 `json:"win_rate"`
	BestScoreJ1 int     `json:"best_score"`
}

// MyStats aggregates the user's game history into win/loss counts.
func MyStats(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var scores []models.Score
	if err := database.DB.
		Where("(player1_id = ? OR player2_id = ?) AND is_deleted = false", user.ID, user.ID).
		Find(&scores).Error; err != nil {
		return helpers.Fail(c, err)
	}

	var stats PlayerStats
	for _, s := range scores {
		stats.TotalGames++
		if s.IsSinglePlayer() {
			stats.SoloGames++
			if s.Player1ID == user.ID && s.ScoreJ1 > stats.BestScoreJ1 {
				stats.BestScoreJ1 = s.ScoreJ1
			}
			continue
		}

		stats.MultiGames++
		mine, theirs := s.ScoreJ1, *s.ScoreJ2
		if s.Player2ID != nil && *s.Player2ID == user.ID {
			mine, theirs = theirs, mine
		}
		if mine > stats.BestScoreJ1 {
			stats.BestScoreJ1 = mine
		}
		switch {
		case mine > theirs:
			stats.Wins++
		case mine < theirs:
			stats.Losses++
		default:
			stats.Draws++
		}
	}
	if stats.MultiGames > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.MultiGames) * 100
	}

	return helpers.JSONSuccess(c, "my stats", stats)
}

func acceptedFriendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := database.DB.
		Where("(requester_id = ? OR requested_id = ?) AND status = ? AND is_deleted = false",
			userID, userID, models.FriendshipAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.RequestedID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}
