package services

import (
	"errors"
	"testing"

	"retronova/helpers"
	"retronova/models"
)

func createUser(t *testing.T, svc *UserService, authUID, pseudo string, tickets int) models.User {
	t.Helper()
	user := models.User{
		AuthUID:        authUID,
		Email:          pseudo + "@example.com",
		Pseudo:         pseudo,
		PhoneNumber:    "+3360000" + pseudo,
		TicketsBalance: tickets,
	}
	if err := svc.db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUpdateTicketsGrant(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	user := createUser(t, svc, "uid-1", "alice", 5)

	adj, err := svc.UpdateTickets(user.ID, 10)
	if err != nil {
		t.Fatalf("UpdateTickets: %v", err)
	}
	if adj.OldBalance != 5 || adj.NewBalance != 15 {
		t.Fatalf("expected 5 -> 15, got %d -> %d", adj.OldBalance, adj.NewBalance)
	}
}

func TestUpdateTicketsClampsAtZero(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	user := createUser(t, svc, "uid-1", "alice", 3)

	adj, err := svc.UpdateTickets(user.ID, -10)
	if err != nil {
		t.Fatalf("UpdateTickets: %v", err)
	}
	if adj.NewBalance != 0 {
		t.Fatalf("expected balance clamped to 0, got %d", adj.NewBalance)
	}
}

func TestUpdateTicketsUnknownUser(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.UpdateTickets(999, 10)
	var apiErr *helpers.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestSoftDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, svc, "uid-1", "alice", 0)
	other := createUser(t, svc, "uid-2", "bob", 0)

	db.Create(&models.Friendship{RequesterID: user.ID, RequestedID: other.ID, Status: models.FriendshipAccepted})
	promo := models.PromoCode{Code: "WELCOME", TicketsReward: 5}
	db.Create(&promo)
	db.Create(&models.PromoUse{UserID: user.ID, PromoCodeID: promo.ID, TicketsReceived: 5})
	db.Create(&models.Score{Player1ID: user.ID, GameID: 1, ArcadeID: 1, ScoreJ1: 100})

	result, err := svc.SoftDelete(user.ID)
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if result.DeletedFriendships != 1 {
		t.Fatalf("expected 1 deleted friendship, got %d", result.DeletedFriendships)
	}
	if result.DeletedPromoUses != 1 {
		t.Fatalf("expected 1 deleted promo use, got %d", result.DeletedPromoUses)
	}

	var scores int64
	db.Model(&models.Score{}).Where("is_deleted = false").Count(&scores)
	if scores != 1 {
		t.Fatalf("scores should survive user deletion, got %d live", scores)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if !reloaded.IsDeleted || reloaded.DeletedAt == nil {
		t.Fatal("user should be soft-deleted with a timestamp")
	}
}

func TestSoftDeleteBlockedByActiveReservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, svc, "uid-1", "alice", 0)

	db.Create(&models.Reservation{
		PlayerID:    user.ID,
		ArcadeID:    1,
		GameID:      1,
		UnlockCode:  "3",
		Status:      models.ReservationWaiting,
		TicketsUsed: 1,
	})

	_, err := svc.SoftDelete(user.ID)
	var apiErr *helpers.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected 400 blocking deletion, got %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.IsDeleted {
		t.Fatal("user must not be deleted while a reservation is active")
	}
}

func TestRestoreUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, svc, "uid-1", "alice", 0)

	if _, err := svc.SoftDelete(user.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	restored, err := svc.Restore(user.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.IsDeleted || restored.DeletedAt != nil {
		t.Fatal("restore should clear the deletion markers")
	}

	if _, err := svc.Restore(user.ID); err == nil {
		t.Fatal("restoring a live user should fail")
	}
}

func TestForceCancelRefundsPrimaryOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, svc, "uid-1", "alice", 0)
	other := createUser(t, svc, "uid-2", "bob", 0)

	db.Create(&models.Reservation{
		PlayerID:    user.ID,
		ArcadeID:    1,
		GameID:      1,
		UnlockCode:  "2",
		Status:      models.ReservationWaiting,
		TicketsUsed: 3,
	})
	db.Create(&models.Reservation{
		PlayerID:    other.ID,
		Player2ID:   &user.ID,
		ArcadeID:    1,
		GameID:      1,
		UnlockCode:  "5",
		Status:      models.ReservationPlaying,
		TicketsUsed: 4,
	})

	result, err := svc.ForceCancelReservations(user.ID)
	if err != nil {
		t.Fatalf("ForceCancelReservations: %v", err)
	}
	if result.CancelledReservations != 2 {
		t.Fatalf("expected 2 cancellations, got %d", result.CancelledReservations)
	}
	if result.RefundedTickets != 3 {
		t.Fatalf("only the primary booking should refund, got %d tickets", result.RefundedTickets)
	}
	if result.NewTicketsBalance != 3 {
		t.Fatalf("expected balance 3, got %d", result.NewTicketsBalance)
	}
}

func TestDeletionImpactReportsBlocking(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, svc, "uid-1", "alice", 0)

	db.Create(&models.Reservation{
		PlayerID:    user.ID,
		ArcadeID:    1,
		GameID:      1,
		UnlockCode:  "7",
		Status:      models.ReservationPlaying,
		TicketsUsed: 2,
	})

	impact, err := svc.DeletionImpact(user.ID)
	if err != nil {
		t.Fatalf("DeletionImpact: %v", err)
	}
	if impact.CanDelete {
		t.Fatal("active reservation should block deletion")
	}
	if impact.BlockingFactors == nil {
		t.Fatal("blocking factors should be reported")
	}
}
