package services

import (
	"testing"

	"retronova/models"
)

func TestCreateGameDefaults(t *testing.T) {
	svc := NewGameService(newTestDB(t))

	game, err := svc.Create(CreateGameRequest{Name: "Pacman", TicketCost: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if game.MinPlayers != 1 || game.MaxPlayers != 2 {
		t.Fatalf("expected default 1-2 players, got %d-%d", game.MinPlayers, game.MaxPlayers)
	}
}

func TestCreateGameRejectsDuplicateName(t *testing.T) {
	svc := NewGameService(newTestDB(t))

	if _, err := svc.Create(CreateGameRequest{Name: "Pacman"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(CreateGameRequest{Name: "PACMAN"}); err == nil {
		t.Fatal("name uniqueness should ignore case")
	}
}

func TestCreateGameRejectsBadRange(t *testing.T) {
	svc := NewGameService(newTestDB(t))

	if _, err := svc.Create(CreateGameRequest{Name: "Crowd", MinPlayers: 4, MaxPlayers: 2}); err == nil {
		t.Fatal("max below min should be rejected")
	}
	if _, err := svc.Create(CreateGameRequest{Name: "Mob", MinPlayers: 1, MaxPlayers: 9}); err == nil {
		t.Fatal("more than 8 players should be rejected")
	}
}

func TestUpdateGameValidatesCombinedRange(t *testing.T) {
	svc := NewGameService(newTestDB(t))
	game, _ := svc.Create(CreateGameRequest{Name: "Duel", MinPlayers: 2, MaxPlayers: 2})

	one := 1
	if _, err := svc.Update(game.ID, UpdateGameRequest{MaxPlayers: &one}); err == nil {
		t.Fatal("lowering max below the stored min should be rejected")
	}

	if _, err := svc.Update(game.ID, UpdateGameRequest{MinPlayers: &one}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestGameRestoreLeavesAssignmentsDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameService(db)
	arcadeSvc := NewArcadeService(db)

	game, _ := svc.Create(CreateGameRequest{Name: "Pacman"})
	arcade, _ := arcadeSvc.Create(CreateArcadeRequest{Name: "Pixel Palace", Location: "Lyon"})
	arcadeSvc.AssignGame(arcade.ArcadeID, AssignGameRequest{GameID: game.ID, SlotNumber: 1})

	if _, err := svc.SoftDelete(game.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := svc.Restore(game.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	var live int64
	db.Model(&models.ArcadeGame{}).Where("is_deleted = false").Count(&live)
	if live != 0 {
		t.Fatalf("slot assignments must stay deleted after a game restore, got %d live", live)
	}
}
