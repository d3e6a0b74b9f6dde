package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"retronova/config"
	"retronova/database"
	"retronova/helpers"
	"retronova/models"
	"retronova/routes"
)

const (
	userSecret  = "test-user-secret"
	adminSecret = "test-admin-secret"
	terminalKey = "test-terminal-key"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helpers.Fail(c, err)
		},
	})
	routes.Setup(app, config.Config{
		UserJWTSecret:  userSecret,
		AdminJWTSecret: adminSecret,
		ArcadeAPIKey:   terminalKey,
	})
	return app, db
}

func signToken(t *testing.T, secret, uid string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env
}

func registerUser(t *testing.T, app *fiber.App, uid, pseudo string) string {
	t.Helper()
	token := signToken(t, userSecret, uid)
	resp, env := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", token, fiber.Map{
		"email":        pseudo + "@example.com",
		"first_name":   "Test",
		"last_name":    "Player",
		"pseudo":       pseudo,
		"birth_date":   "1999-04-12",
		"phone_number": "+3360000" + pseudo,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register %s: status %d, message %q", pseudo, resp.StatusCode, env.Message)
	}
	return token
}

// The canonical player journey: register, buy tickets, redeem a promo, book a
// game and land first in the queue.
func TestPlayerJourney(t *testing.T) {
	app, db := setupApp(t)
	token := registerUser(t, app, "uid-alice", "alice")

	offer := models.TicketOffer{Name: "Starter", TicketsAmount: 10, PriceEuros: decimal.NewFromFloat(4.99)}
	db.Create(&offer)

	resp, env := doRequest(t, app, http.MethodPost, "/api/v1/tickets/purchase", token,
		fiber.Map{"offer_id": offer.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purchase: status %d, message %q", resp.StatusCode, env.Message)
	}

	_, env = doRequest(t, app, http.MethodGet, "/api/v1/tickets/balance", token, nil)
	var balance struct {
		TicketsBalance int `json:"tickets_balance"`
	}
	json.Unmarshal(env.Data, &balance)
	if balance.TicketsBalance != 10 {
		t.Fatalf("expected balance 10 after purchase, got %d", balance.TicketsBalance)
	}

	db.Create(&models.PromoCode{Code: "BONUS5", TicketsReward: 5, IsSingleUsePerUser: true, IsActive: true})
	resp, env = doRequest(t, app, http.MethodPost, "/api/v1/promos/use", token,
		fiber.Map{"code": "bonus5"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("promo use: status %d, message %q", resp.StatusCode, env.Message)
	}
	var redemption struct {
		NewBalance int `json:"new_balance"`
	}
	json.Unmarshal(env.Data, &redemption)
	if redemption.NewBalance != 15 {
		t.Fatalf("expected balance 15 after promo, got %d", redemption.NewBalance)
	}

	arcade := models.Arcade{Name: "Pixel Palace", APIKey: "arcade_key_x", Location: "Lyon"}
	db.Create(&arcade)
	game := models.Game{Name: "Pacman", MinPlayers: 1, MaxPlayers: 2, TicketCost: 2}
	db.Create(&game)
	db.Create(&models.ArcadeGame{ArcadeID: arcade.ID, GameID: game.ID, SlotNumber: 1})

	resp, env = doRequest(t, app, http.MethodPost, "/api/v1/reservations/", token,
		fiber.Map{"arcade_id": arcade.ID, "game_id": game.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reservation: status %d, message %q", resp.StatusCode, env.Message)
	}
	var reservation struct {
		Position    *int   `json:"position"`
		UnlockCode  string `json:"unlock_code"`
		TicketsUsed int    `json:"tickets_used"`
	}
	json.Unmarshal(env.Data, &reservation)
	if reservation.Position == nil || *reservation.Position != 1 {
		t.Fatalf("first booking should be position 1, got %v", reservation.Position)
	}
	if reservation.UnlockCode < "1" || reservation.UnlockCode > "8" {
		t.Fatalf("unlock code must be a digit 1-8, got %q", reservation.UnlockCode)
	}
	if reservation.TicketsUsed != 2 {
		t.Fatalf("expected 2 tickets debited, got %d", reservation.TicketsUsed)
	}

	_, env = doRequest(t, app, http.MethodGet, "/api/v1/tickets/balance", token, nil)
	json.Unmarshal(env.Data, &balance)
	if balance.TicketsBalance != 13 {
		t.Fatalf("expected balance 13 after booking, got %d", balance.TicketsBalance)
	}
}

func TestRegisterTwiceRejected(t *testing.T) {
	app, _ := setupApp(t)
	token := registerUser(t, app, "uid-alice", "alice")

	resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", token, fiber.Map{
		"email":        "alice@example.com",
		"pseudo":       "alice",
		"birth_date":   "1999-04-12",
		"phone_number": "+33600001111",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second register should fail with 400, got %d", resp.StatusCode)
	}
}

func TestRegisterReactivatesDeletedAccount(t *testing.T) {
	app, db := setupApp(t)
	token := registerUser(t, app, "uid-alice", "alice")

	resp, env := doRequest(t, app, http.MethodDelete, "/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("self delete: status %d, message %q", resp.StatusCode, env.Message)
	}

	resp, env = doRequest(t, app, http.MethodPost, "/api/v1/auth/register", token, fiber.Map{
		"email":        "alice@example.com",
		"pseudo":       "alice",
		"birth_date":   "1999-04-12",
		"phone_number": "+33600001111",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-register: status %d, message %q", resp.StatusCode, env.Message)
	}

	var count int64
	db.Model(&models.User{}).Where("auth_uid = ? AND is_deleted = false", "uid-alice").Count(&count)
	if count != 1 {
		t.Fatalf("expected one live account after reactivation, got %d", count)
	}
}

func TestAuthDomainsAreIsolated(t *testing.T) {
	app, _ := setupApp(t)
	registerUser(t, app, "uid-alice", "alice")

	// A user token must not open admin routes, and vice versa.
	userToken := signToken(t, userSecret, "uid-alice")
	resp, _ := doRequest(t, app, http.MethodGet, "/api/v1/admin/stats", userToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("user token on admin route: expected 401, got %d", resp.StatusCode)
	}

	adminToken := signToken(t, adminSecret, "admin-1")
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/auth/me", adminToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("admin token on user route: expected 401, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin token on admin route: expected 200, got %d", resp.StatusCode)
	}
}

func TestArcadeKeyGatesTerminalRoutes(t *testing.T) {
	app, db := setupApp(t)
	arcade := models.Arcade{Name: "Pixel Palace", APIKey: "arcade_key_x", Location: "Lyon"}
	db.Create(&arcade)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/arcades/1/queue", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/arcades/1/queue", nil)
	req.Header.Set("X-API-Key", "wrong")
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong key: expected 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/arcades/1/queue", nil)
	req.Header.Set("X-API-Key", terminalKey)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid key: expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminTicketGrantClampsAtZero(t *testing.T) {
	app, db := setupApp(t)
	registerUser(t, app, "uid-alice", "alice")

	var user models.User
	db.Where("auth_uid = ?", "uid-alice").First(&user)
	db.Model(&user).Update("tickets_balance", 3)

	adminToken := signToken(t, adminSecret, "admin-1")
	resp, env := doRequest(t, app, http.MethodPut, "/api/v1/admin/users/tickets", adminToken,
		fiber.Map{"user_id": user.ID, "tickets": -10})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin deduct: status %d, message %q", resp.StatusCode, env.Message)
	}

	var adj struct {
		NewBalance int `json:"new_balance"`
	}
	json.Unmarshal(env.Data, &adj)
	if adj.NewBalance != 0 {
		t.Fatalf("admin deduction should clamp at zero, got %d", adj.NewBalance)
	}
}

func TestUnknownRouteReports404(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route should 404, got %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("the error should still use the JSON envelope: %v", err)
	}
	if env.Success {
		t.Fatal("error envelope should report success=false")
	}
}

func TestReactivationChecksUniqueness(t *testing.T) {
	app, _ := setupApp(t)
	aliceToken := registerUser(t, app, "uid-alice", "alice")
	registerUser(t, app, "uid-bob", "bob")

	resp, env := doRequest(t, app, http.MethodDelete, "/api/v1/users/me", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("self delete: status %d, message %q", resp.StatusCode, env.Message)
	}

	// Alice comes back but tries to grab bob's pseudo.
	resp, env = doRequest(t, app, http.MethodPost, "/api/v1/auth/register", aliceToken, fiber.Map{
		"email":        "alice@example.com",
		"pseudo":       "bob",
		"birth_date":   "1999-04-12",
		"phone_number": "+33600001111",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("reactivation with a taken pseudo should 400, got %d (%q)", resp.StatusCode, env.Message)
	}
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
