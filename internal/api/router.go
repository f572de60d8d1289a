// internal/api/router.go
package api

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes wires all HTTP endpoints. Everything under /api except
// registration and login requires a bearer token.
func (a *API) SetupRoutes(r chi.Router) {
	r.Get("/health", a.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", a.RegisterHandler)
		r.Post("/auth/login", a.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(a.AuthMiddleware)

			r.Get("/auth/verify", a.VerifyHandler)
			r.Get("/auth/me", a.MeHandler)
			r.Post("/auth/logout", a.LogoutHandler)
			r.Get("/users", a.ListUsersHandler)

			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", a.CreateConversationHandler)
				r.Get("/", a.ListConversationsHandler)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", a.GetConversationHandler)
					r.Delete("/", a.DeleteConversationHandler)

					r.Post("/messages", a.SendMessageHandler)
					r.Get("/messages", a.ListMessagesHandler)
					r.Post("/messages/stream", a.StreamMessageHandler)

					r.Post("/participants", a.AddParticipantHandler)
					r.Get("/participants", a.ListParticipantsHandler)
					r.Delete("/participants/{userID}", a.RemoveParticipantHandler)
				})
			})

			r.Route("/stt", func(r chi.Router) {
				r.Post("/transcribe", a.TranscribeHandler)
				r.Post("/stream-chunk", a.StreamChunkHandler)
				r.Get("/languages", a.LanguagesHandler)
				r.Get("/stream", a.RelayHandler)
			})

			r.Route("/tts", func(r chi.Router) {
				r.Post("/synthesize", a.SynthesizeHandler)
				r.Get("/voices", a.VoicesHandler)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", a.ListNotificationsHandler)
				r.Get("/unread-count", a.UnreadCountHandler)
				r.Put("/{id}/read", a.MarkNotificationReadHandler)
				r.Put("/read-all", a.MarkAllNotificationsReadHandler)
				r.Delete("/{id}", a.DeleteNotificationHandler)
			})
		})
	})
}
