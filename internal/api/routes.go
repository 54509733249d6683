package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", handler.Metrics)
	app.Static(handler.media.URLPrefix(), handler.media.Root())

	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	api.Post("/signup", handler.Signup)
	api.Post("/login", handler.Login)
	api.Post("/admin/login", handler.AdminLogin)
	api.Post("/logout", handler.AuthRequired, handler.Logout)
	api.Get("/me", handler.AuthRequired, handler.Me)

	moods := api.Group("/moods")
	moods.Get("", handler.ListMoods)
	moods.Get("/:name", handler.GetMood)
	moods.Post("", handler.AuthRequired, handler.StaffOnly, handler.CreateMood)
	moods.Put("/:name", handler.AuthRequired, handler.StaffOnly, handler.UpdateMood)
	moods.Patch("/:name", handler.AuthRequired, handler.StaffOnly, handler.UpdateMood)
	moods.Delete("/:name", handler.AuthRequired, handler.StaffOnly, handler.DeleteMood)

	for _, resource := range handler.moodEntryResources() {
		resource.register(api.Group(resource.path()), handler)
	}

	suggestions := api.Group("/suggestions")
	suggestions.Get("", handler.ListSuggestions)
	suggestions.Get("/:mood", handler.GetSuggestion)
	suggestions.Post("", handler.AuthRequired, handler.StaffOnly, handler.CreateSuggestion)
	suggestions.Put("/:mood", handler.AuthRequired, handler.StaffOnly, handler.UpdateSuggestion)
	suggestions.Patch("/:mood", handler.AuthRequired, handler.StaffOnly, handler.UpdateSuggestion)
	suggestions.Delete("/:mood", handler.AuthRequired, handler.StaffOnly, handler.DeleteSuggestion)

	images := api.Group("/captured-images", handler.AuthRequired)
	images.Get("", handler.ListCapturedImages)
	images.Post("", handler.CreateCapturedImage)
	images.Get("/:id", handler.GetCapturedImage)
	images.Put("/:id", handler.UpdateCapturedImage)
	images.Patch("/:id", handler.UpdateCapturedImage)
	images.Delete("/:id", handler.DeleteCapturedImage)

	users := api.Group("/users", handler.AuthRequired)
	users.Get("", handler.StaffOnly, handler.ListUsers)
	users.Get("/:id/captured-images", handler.ListUserCapturedImages)
	users.Get("/:id", handler.StaffOnly, handler.GetUser)
	users.Put("/:id", handler.StaffOnly, handler.UpdateUser)
	users.Patch("/:id", handler.StaffOnly, handler.UpdateUser)

	dashboard := api.Group("/dashboard", handler.AuthRequired)
	dashboard.Get("/stats", handler.DashboardStats)
	dashboard.Get("/top-moods", handler.DashboardTopMoods)
	dashboard.Get("/user-activity", handler.DashboardUserActivity)
}
