package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retronova/helpers"
	"retronova/models"
)

// UserService covers the admin-side user lifecycle: ticket grants, GDPR soft
// deletion with its cascade, restoration and impact analysis. A service is
// constructed per request and holds no state beyond the session.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type TicketAdjustment struct {
	UserID       uint   `json:"user_id"`
	Pseudo       string `json:"pseudo"`
	OldBalance   int    `json:"old_balance"`
	NewBalance   int    `json:"new_balance"`
	TicketsAdded int    `json:"tickets_added"`
}

// UpdateTickets applies an admin grant or deduction. Unlike user-initiated
// spending, a deduction below zero is clamped to zero instead of rejected.
func (s *UserService) UpdateTickets(userID uint, delta int) (*TicketAdjustment, error) {
	var adj TicketAdjustment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", userID).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound("user not found")
			}
			return err
		}

		oldBalance := user.TicketsBalance
		newBalance := oldBalance + delta
		if newBalance < 0 {
			newBalance = 0
		}

		if err := tx.Model(&user).Update("tickets_balance", newBalance).Error; err != nil {
			return err
		}

		adj = TicketAdjustment{
			UserID:       user.ID,
			Pseudo:       user.Pseudo,
			OldBalance:   oldBalance,
			NewBalance:   newBalance,
			TicketsAdded: delta,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &adj, nil
}

func (s *UserService) ListDeleted() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("is_deleted = true").Order("deleted_at DESC").Find(&users).Error
	return users, err
}

func (s *UserService) Restore(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, helpers.NotFound("user not found")
	}
	if !user.IsDeleted {
		return nil, helpers.BadRequest("this user is not deleted")
	}

	user.Restore()
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type UserDeletionResult struct {
	UserID             uint   `json:"user_id"`
	Pseudo             string `json:"pseudo"`
	DeletedFriendships int64  `json:"deleted_friendships"`
	DeletedPromoUses   int64  `json:"deleted_promo_uses"`
	DeletedPurchases   int64  `json:"deleted_purchases"`
}

// SoftDelete removes a user and cascades to friendships, promo uses and
// ticket purchases. Scores are left untouched so game history stays intact.
// The whole operation is refused while any reservation involving the user is
// waiting or playing.
func (s *UserService) SoftDelete(userID uint) (*UserDeletionResult, error) {
	var result UserDeletionResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", userID).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound("user not found")
			}
			return err
		}

		active, err := countActiveReservationsForUser(tx, userID)
		if err != nil {
			return err
		}
		if active > 0 {
			return helpers.BadRequest(fmt.Sprintf(
				"cannot delete user: %d active reservation(s); handle them first", active))
		}

		now := time.Now().UTC()
		user.SoftDelete(now)
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		marks := map[string]any{"is_deleted": true, "deleted_at": now}

		friendships := tx.Model(&models.Friendship{}).
			Where("(requester_id = ? OR requested_id = ?) AND is_deleted = false", userID, userID).
			Updates(marks)
		if friendships.Error != nil {
			return friendships.Error
		}

		promoUses := tx.Model(&models.PromoUse{}).
			Where("user_id = ? AND is_deleted = false", userID).
			Updates(marks)
		if promoUses.Error != nil {
			return promoUses.Error
		}

		purchases := tx.Model(&models.TicketPurchase{}).
			Where("user_id = ? AND is_deleted = false", userID).
			Updates(marks)
		if purchases.Error != nil {
			return purchases.Error
		}

		result = UserDeletionResult{
			UserID:             user.ID,
			Pseudo:             user.Pseudo,
			DeletedFriendships: friendships.RowsAffected,
			DeletedPromoUses:   promoUses.RowsAffected,
			DeletedPurchases:   purchases.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type UserDeletionImpact struct {
	User            map[string]any `json:"user"`
	CanDelete       bool           `json:"can_delete"`
	BlockingFactors map[string]any `json:"blocking_factors,omitempty"`
	DeletionImpact  map[string]any `json:"deletion_impact"`
}

// DeletionImpact reports what a deletion would touch, without changing
// anything.
func (s *UserService) DeletionImpact(userID uint) (*UserDeletionImpact, error) {
	var user models.User
	if err := s.db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return nil, helpers.NotFound("user not found")
	}

	active, err := countActiveReservationsForUser(s.db, userID)
	if err != nil {
		return nil, err
	}

	var friendships, promoUses, purchases, finishedReservations, scores int64
	s.db.Model(&models.Friendship{}).
		Where("(requester_id = ? OR requested_id = ?) AND is_deleted = false", userID, userID).
		Count(&friendships)
	s.db.Model(&models.PromoUse{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Count(&promoUses)
	s.db.Model(&models.TicketPurchase{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Count(&purchases)
	s.db.Model(&models.Reservation{}).
		Where("(player_id = ? OR player2_id = ?) AND status IN ? AND is_deleted = false",
			userID, userID, []models.ReservationStatus{models.ReservationCompleted, models.ReservationCancelled}).
		Count(&finishedReservations)
	s.db.Model(&models.Score{}).
		Where("(player1_id = ? OR player2_id = ?) AND is_deleted = false", userID, userID).
		Count(&scores)

	impact := &UserDeletionImpact{
		User: map[string]any{
			"id":              user.ID,
			"pseudo":          user.Pseudo,
			"email":           user.Email,
			"tickets_balance": user.TicketsBalance,
		},
		CanDelete: active == 0,
		DeletionImpact: map[string]any{
			"friendships_to_delete":            friendships,
			"promo_uses_to_delete":             promoUses,
			"purchases_to_delete":              purchases,
			"completed_reservations_preserved": finishedReservations,
			"scores_preserved":                 scores,
		},
	}
	if active > 0 {
		impact.BlockingFactors = map[string]any{"active_reservations": active}
	}
	return impact, nil
}

type ForceCancelResult struct {
	UserID                uint   `json:"user_id"`
	Pseudo                string `json:"pseudo"`
	CancelledReservations int    `json:"cancelled_reservations"`
	RefundedTickets       int    `json:"refunded_tickets"`
	NewTicketsBalance     int    `json:"new_tickets_balance"`
}

// ForceCancelReservations cancels every active reservation involving the
// user. Tickets are refunded only for reservations where the user is the
// primary player; a second player never paid.
func (s *UserService) ForceCancelReservations(userID uint) (*ForceCancelResult, error) {
	var result ForceCancelResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = false", userID).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound("user not found")
			}
			return err
		}

		var reservations []models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("(player_id = ? OR player2_id = ?) AND status IN ? AND is_deleted = false",
				userID, userID, []models.ReservationStatus{models.ReservationWaiting, models.ReservationPlaying}).
			Find(&reservations).Error; err != nil {
			return err
		}

		cancelled := 0
		refunded := 0
		for i := range reservations {
			if reservations[i].PlayerID == userID {
				user.TicketsBalance += reservations[i].TicketsUsed
				refunded += reservations[i].TicketsUsed
			}
			reservations[i].Status = models.ReservationCancelled
			if err := tx.Save(&reservations[i]).Error; err != nil {
				return err
			}
			cancelled++
		}

		if err := tx.Model(&user).Update("tickets_balance", user.TicketsBalance).Error; err != nil {
			return err
		}

		result = ForceCancelResult{
			UserID:                user.ID,
			Pseudo:                user.Pseudo,
			CancelledReservations: cancelled,
			RefundedTickets:       refunded,
			NewTicketsBalance:     user.TicketsBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func countActiveReservationsForUser(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Reservation{}).
		Where("(player_id = ? OR player2_id = ?) AND status IN ? AND is_deleted = false",
			userID, userID, []models.ReservationStatus{models.ReservationWaiting, models.ReservationPlaying}).
		Count(&count).Error
	return count, err
}
