package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"retronova/helpers"
	"retronova/models"
)

type ArcadeService struct {
	db *gorm.DB
}

func NewArcadeService(db *gorm.DB) *ArcadeService {
	return &ArcadeService{db: db}
}

type CreateArcadeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type CreatedArcade struct {
	ArcadeID uint   `json:"arcade_id"`
	APIKey   string `json:"api_key"`
}

func (s *ArcadeService) Create(req CreateArcadeRequest) (*CreatedArcade, error) {
	if req.Name == "" || req.Location == "" {
		return nil, helpers.BadRequest("name and location are required")
	}

	arcade := models.Arcade{
		Name:        req.Name,
		Description: req.Description,
		APIKey:      s.newUniqueAPIKey(),
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := s.db.Create(&arcade).Error; err != nil {
		return nil, err
	}
	return &CreatedArcade{ArcadeID: arcade.ID, APIKey: arcade.APIKey}, nil
}

type AssignGameRequest struct {
	GameID     uint `json:"game_id"`
	SlotNumber int  `json:"slot_number"`
}

// AssignGame installs a game on one of the two slots. A stale assignment on
// the same slot is hard-deleted, the only place a row is physically removed.
func (s *ArcadeService) AssignGame(arcadeID uint, req AssignGameRequest) (string, error) {
	arcade, err := s.getLive(arcadeID)
	if err != nil {
		return "", err
	}

	var game models.Game
	if err := s.db.Where("id = ? AND is_deleted = false", req.GameID).First(&game).Error; err != nil {
		return "", helpers.NotFound("game not found")
	}

	if req.SlotNumber != 1 && req.SlotNumber != 2 {
		return "", helpers.BadRequest("slot number must be 1 or 2")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ArcadeGame
		err := tx.Where("arcade_id = ? AND slot_number = ?", arcadeID, req.SlotNumber).
			First(&existing).Error
		if err == nil {
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.ArcadeGame{
			ArcadeID:   arcadeID,
			GameID:     req.GameID,
			SlotNumber: req.SlotNumber,
		}).Error
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("game %q assigned to slot %d of arcade %q", game.Name, req.SlotNumber, arcade.Name), nil
}

type ArcadeDeletionResult struct {
	ArcadeID            uint   `json:"arcade_id"`
	Name                string `json:"name"`
	DeletedAssociations int64  `json:"deleted_associations"`
}

func (s *ArcadeService) SoftDelete(arcadeID uint) (*ArcadeDeletionResult, error) {
	arcade, err := s.getLive(arcadeID)
	if err != nil {
		return nil, err
	}

	var active int64
	s.db.Model(&models.Reservation{}).
		Where("arcade_id = ? AND status IN ? AND is_deleted = false",
			arcadeID, []models.ReservationStatus{models.ReservationWaiting, models.ReservationPlaying}).
		Count(&active)
	if active > 0 {
		return nil, helpers.BadRequest(fmt.Sprintf(
			"cannot delete arcade: %d active reservation(s)", active))
	}

	var result ArcadeDeletionResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		arcade.SoftDelete(now)
		if err := tx.Save(arcade).Error; err != nil {
			return err
		}

		assoc := tx.Model(&models.ArcadeGame{}).
			Where("arcade_id = ? AND is_deleted = false", arcadeID).
			Updates(map[string]any{"is_deleted": true, "deleted_at": now})
		if assoc.Error != nil {
			return assoc.Error
		}

		result = ArcadeDeletionResult{
			ArcadeID:            arcade.ID,
			Name:                arcade.Name,
			DeletedAssociations: assoc.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ArcadeService) ListDeleted() ([]models.Arcade, error) {
	var arcades []models.Arcade
	err := s.db.Where("is_deleted = true").Order("deleted_at DESC").Find(&arcades).Error
	return arcades, err
}

type ArcadeRestoreResult struct {
	ArcadeID             uint   `json:"arcade_id"`
	Name                 string `json:"name"`
	RestoredAssociations int    `json:"restored_associations"`
	TotalAssociations    int    `json:"total_associations"`
}

// Restore brings a deleted arcade back. Slot assignments are only restored
// when the game still exists and the slot is free, so partial restoration is
// normal and reported.
func (s *ArcadeService) Restore(arcadeID uint) (*ArcadeRestoreResult, error) {
	var arcade models.Arcade
	if err := s.db.First(&arcade, arcadeID).Error; err != nil {
		return nil, helpers.NotFound("arcade not found")
	}
	if !arcade.IsDeleted {
		return nil, helpers.BadRequest("this arcade is not deleted")
	}

	var conflict int64
	s.db.Model(&models.Arcade{}).
		Where("api_key = ? AND is_deleted = false AND id <> ?", arcade.APIKey, arcade.ID).
		Count(&conflict)
	if conflict > 0 {
		return nil, helpers.BadRequest(
			"this arcade's API key is now used by another arcade; regenerate it first")
	}

	var result ArcadeRestoreResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		arcade.Restore()
		if err := tx.Save(&arcade).Error; err != nil {
			return err
		}

		var assignments []models.ArcadeGame
		if err := tx.Where("arcade_id = ? AND is_deleted = true", arcadeID).
			Find(&assignments).Error; err != nil {
			return err
		}

		restored := 0
		for i := range assignments {
			ok, err := s.canRestoreAssignment(tx, &assignments[i])
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			assignments[i].Restore()
			if err := tx.Save(&assignments[i]).Error; err != nil {
				return err
			}
			restored++
		}

		result = ArcadeRestoreResult{
			ArcadeID:             arcade.ID,
			Name:                 arcade.Name,
			RestoredAssociations: restored,
			TotalAssociations:    len(assignments),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type RegeneratedKey struct {
	ArcadeID  uint   `json:"arcade_id"`
	Name      string `json:"name"`
	OldAPIKey string `json:"old_api_key"`
	NewAPIKey string `json:"new_api_key"`
}

func (s *ArcadeService) RegenerateAPIKey(arcadeID uint) (*RegeneratedKey, error) {
	var arcade models.Arcade
	if err := s.db.First(&arcade, arcadeID).Error; err != nil {
		return nil, helpers.NotFound("arcade not found")
	}

	oldKey := arcade.APIKey
	arcade.APIKey = s.newUniqueAPIKey()
	if err := s.db.Save(&arcade).Error; err != nil {
		return nil, err
	}

	return &RegeneratedKey{
		ArcadeID:  arcade.ID,
		Name:      arcade.Name,
		OldAPIKey: truncateKey(oldKey),
		NewAPIKey: arcade.APIKey,
	}, nil
}

func (s *ArcadeService) getLive(arcadeID uint) (*models.Arcade, error) {
	var arcade models.Arcade
	if err := s.db.Where("id = ? AND is_deleted = false", arcadeID).First(&arcade).Error; err != nil {
		return nil, helpers.NotFound("arcade not found")
	}
	return &arcade, nil
}

func (s *ArcadeService) newUniqueAPIKey() string {
	for {
		key := helpers.NewArcadeAPIKey()
		var count int64
		s.db.Model(&models.Arcade{}).Where("api_key = ?", key).Count(&count)
		if count == 0 {
			return key
		}
	}
}

func (s *ArcadeService) canRestoreAssignment(tx *gorm.DB, assignment *models.ArcadeGame) (bool, error) {
	var gameCount int64
	if err := tx.Model(&models.Game{}).
		Where("id = ? AND is_deleted = false", assignment.GameID).
		Count(&gameCount).Error; err != nil {
		return false, err
	}
	if gameCount == 0 {
		return false, nil
	}

	var slotConflict int64
	if err := tx.Model(&models.ArcadeGame{}).
		Where("arcade_id = ? AND slot_number = ? AND is_deleted = false AND id <> ?",
			assignment.ArcadeID, assignment.SlotNumber, assignment.ID).
		Count(&slotConflict).Error; err != nil {
		return false, err
	}
	return slotConflict == 0, nil
}

func truncateKey(key string) string {
	if len(key) <= 20 {
		return key
	}
	return key[:20] + "..."
}
