package routes

import (
	"route-vending/tablegrid/internal/api"
	"route-vending/tablegrid/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// Reads are public; anything that changes shared data needs an edit session.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {
	sessions := deps.Services.Sessions
	secretLimiter := middleware.NewRateLimiter(deps.Config.Auth.SessionRate, deps.Config.Auth.SessionBurst)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.With(secretLimiter.Middleware).Post("/session", handlers.OpenSession())

		// Public reads
		v1.Group(func(public chi.Router) {
			public.Use(middleware.OptionalEditSession(sessions))

			public.Get("/rows", handlers.ListRows())
			public.Get("/rows/{id}", handlers.GetRow())
			public.Get("/columns", handlers.ListColumns())

			// Layout preferences are per user and not shared data
			public.Get("/layout", handlers.GetLayout())
			public.Post("/layout", handlers.SaveLayout())
			public.Post("/layout/toggle", handlers.ToggleColumn())

			public.Get("/view", handlers.GetView())
			// Sorting is local view state without a session and persisted with one
			public.Post("/view/sort", handlers.SortView())

			public.Get("/mutations/pending", handlers.PendingMutations())
			public.Get("/notifications", handlers.Notifications())
		})

		// Edit mode
		v1.Group(func(edit chi.Router) {
			edit.Use(middleware.RequireEditSession(sessions))

			edit.Delete("/session", handlers.CloseSession())

			edit.Post("/rows", handlers.CreateRow())
			edit.Post("/rows/reorder", handlers.ReorderRows())
			edit.Patch("/rows/{id}", handlers.UpdateRow())
			edit.Delete("/rows/{id}", handlers.DeleteRow())

			edit.Post("/rows/{id}/images", handlers.AddImage())
			edit.Delete("/rows/{id}/images", handlers.DeleteImage())
			edit.Patch("/rows/{id}/images/{index}", handlers.UpdateImage())
			edit.Delete("/rows/{id}/images/{index}", handlers.DeleteImage())

			edit.Post("/columns", handlers.CreateColumn())
			edit.Post("/columns/reorder", handlers.ReorderColumns())
			edit.Patch("/columns/{id}", handlers.UpdateColumn())
			edit.Delete("/columns/{id}", handlers.DeleteColumn())

			edit.Post("/view/move", handlers.MoveRow())
		})
	})
}
