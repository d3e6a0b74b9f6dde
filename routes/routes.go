package routes

import (
	"github.com/gofiber/fiber/v2"

	"retronova/config"
	"retronova/controllers/admin"
	"retronova/controllers/arcades"
	"retronova/controllers/auth"
	"retronova/controllers/friends"
	"retronova/controllers/games"
	"retronova/controllers/promos"
	"retronova/controllers/reservations"
	"retronova/controllers/scores"
	"retronova/controllers/tickets"
	"retronova/controllers/users"
	"retronova/helpers"
	"retronova/middlewares"
)

func Setup(app *fiber.App, cfg config.Config) {
	app.Get("/", func(c *fiber.Ctx) error {
		return helpers.JSONSuccess(c, "retronova API", fiber.Map{"version": "v1"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return helpers.JSONSuccess(c, "ok", nil)
	})

	api := app.Group("/api/v1")

	authroutes := api.Group("/auth")
	authroutes.Post("/register", middlewares.TokenAuth(cfg.UserJWTSecret), auth.Register)
	authroutes.Get("/me", middlewares.UserAuth(cfg.UserJWTSecret), auth.Me)

	userroutes := api.Group("/users", middlewares.UserAuth(cfg.UserJWTSecret))
	userroutes.Get("/me", users.Profile)
	userroutes.Put("/me", users.UpdateProfile)
	userroutes.Delete("/me", users.DeleteAccount)
	userroutes.Get("/search", users.Search)

	friendroutes := api.Group("/friends", middlewares.UserAuth(cfg.UserJWTSecret))
	friendroutes.Get("/", friends.List)
	friendroutes.Get("/requests", friends.Requests)
	friendroutes.Post("/request", friends.SendRequest)
	friendroutes.Put("/request/:id/accept", friends.Accept)
	friendroutes.Put("/request/:id/reject", friends.Reject)
	friendroutes.Delete("/:user_id", friends.Remove)

	ticketroutes := api.Group("/tickets")
	ticketroutes.Get("/offers", tickets.Offers)
	ticketroutes.Post("/purchase", middlewares.UserAuth(cfg.UserJWTSecret), tickets.Purchase)
	ticketroutes.Get("/balance", middlewares.UserAuth(cfg.UserJWTSecret), tickets.Balance)
	ticketroutes.Get("/history", middlewares.UserAuth(cfg.UserJWTSecret), tickets.History)

	gameroutes := api.Group("/games")
	gameroutes.Get("/", games.List)
	gameroutes.Get("/:id", games.Get)

	arcaderoutes := api.Group("/arcades")
	arcaderoutes.Get("/", arcades.List)
	arcaderoutes.Get("/:id/queue", middlewares.ArcadeAuth(cfg.ArcadeAPIKey), arcades.Queue)
	arcaderoutes.Get("/:id/config", middlewares.ArcadeAuth(cfg.ArcadeAPIKey), arcades.Config)
	arcaderoutes.Get("/:id", arcades.Get)

	reservationroutes := api.Group("/reservations", middlewares.UserAuth(cfg.UserJWTSecret))
	reservationroutes.Post("/", reservations.Create)
	reservationroutes.Get("/", reservations.ListMine)
	reservationroutes.Get("/:id", reservations.Get)
	reservationroutes.Delete("/:id", reservations.Cancel)

	scoreroutes := api.Group("/scores")
	scoreroutes.Post("/", middlewares.ArcadeAuth(cfg.ArcadeAPIKey), scores.Submit)
	scoreroutes.Get("/", middlewares.UserAuth(cfg.UserJWTSecret), scores.List)
	scoreroutes.Get("/my-stats", middlewares.UserAuth(cfg.UserJWTSecret), scores.MyStats)

	promoroutes := api.Group("/promos", middlewares.UserAuth(cfg.UserJWTSecret))
	promoroutes.Post("/use", promos.Use)
	promoroutes.Get("/history", promos.History)
	promoroutes.Get("/available", promos.Available)

	adminroutes := api.Group("/admin", middlewares.AdminAuth(cfg.AdminJWTSecret))
	adminroutes.Post("/arcades/", admin.CreateArcade)
	adminroutes.Put("/arcades/:id/games", admin.AssignGame)
	adminroutes.Get("/arcades/deleted", admin.ListDeletedArcades)
	adminroutes.Put("/arcades/:id/restore", admin.RestoreArcade)
	adminroutes.Put("/arcades/:id/regenerate-api-key", admin.RegenerateArcadeKey)
	adminroutes.Delete("/arcades/:id", admin.DeleteArcade)

	adminroutes.Post("/games/", admin.CreateGame)
	adminroutes.Get("/games/", admin.ListGames)
	adminroutes.Get("/games/deleted", admin.ListDeletedGames)
	adminroutes.Get("/games/:id/stats", admin.GameStats)
	adminroutes.Get("/games/:id/arcades", admin.GameArcades)
	adminroutes.Put("/games/:id/restore", admin.RestoreGame)
	adminroutes.Get("/games/:id", admin.GetGame)
	adminroutes.Put("/games/:id", admin.UpdateGame)
	adminroutes.Delete("/games/:id", admin.DeleteGame)

	adminroutes.Post("/promo-codes/", admin.CreatePromoCode)
	adminroutes.Get("/promo-codes/", admin.ListPromoCodes)
	adminroutes.Get("/promo-codes/expiring-soon", admin.ExpiringPromoCodes)
	adminroutes.Put("/promo-codes/:id", admin.UpdatePromoCode)
	adminroutes.Post("/promo-codes/:id/toggle-active", admin.TogglePromoCode)

	adminroutes.Put("/users/tickets", admin.UpdateUserTickets)
	adminroutes.Get("/users/deleted", admin.ListDeletedUsers)
	adminroutes.Put("/users/:id/restore", admin.RestoreUser)
	adminroutes.Get("/users/:id/deletion-impact", admin.UserDeletionImpact)
	adminroutes.Put("/users/:id/force-cancel-reservations", admin.ForceCancelUserReservations)
	adminroutes.Delete("/users/:id", admin.DeleteUser)

	adminroutes.Get("/stats", admin.GlobalStats)
}
