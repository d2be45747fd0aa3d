package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/services"
	"wedding-server/storage"
	"wedding-server/utils"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Store        storage.Store
	Availability *services.Availability
	Reservations *services.Reservations
	RSVP         *services.RSVP
	Mailer       *utils.Mailer
	Log          zerolog.Logger
}

// NewApp builds the iris application with every route mounted under /api.
func NewApp(deps Deps) *iris.Application {
	app := iris.New()
	api := app.Party("/api")

	authHandlers := &AuthHandlers{Store: deps.Store, Log: deps.Log}
	auth := api.Party("/auth")
	auth.Post("/signup", authHandlers.Signup)
	auth.Post("/login", authHandlers.Login)

	userHandlers := &UserHandlers{Store: deps.Store}
	user := api.Party("/user", Protect(deps.Store))
	user.Get("/me", userHandlers.Me)

	weddingHandlers := &WeddingHandlers{Store: deps.Store, Availability: deps.Availability}
	weddings := api.Party("/weddings", Protect(deps.Store))
	weddings.Get("/", weddingHandlers.List)
	weddings.Get("/{id:uint}", weddingHandlers.Get)
	weddings.Put("/{id:uint}", weddingHandlers.Update)

	invitationHandlers := &InvitationHandlers{Store: deps.Store}
	invitations := api.Party("/invitations")
	invitations.Get("/{invitationId:string}", invitationHandlers.Get)
	invitations.Post("/", Protect(deps.Store), invitationHandlers.Create)
	invitations.Get("/wedding/{weddingId:uint}", Protect(deps.Store), invitationHandlers.ListByWedding)

	rsvpHandlers := &RSVPHandlers{Store: deps.Store, RSVP: deps.RSVP, Mailer: deps.Mailer, Log: deps.Log}
	rsvp := api.Party("/rsvp")
	rsvp.Get("/{invitationId:string}", rsvpHandlers.Get)
	rsvp.Put("/{invitationId:string}", rsvpHandlers.Update)

	// Same handler set for both capacity-constrained resources.
	for _, resource := range models.ResourceTypes {
		handlers := &ReservationHandlers{
			Resource:     resource,
			Store:        deps.Store,
			Reservations: deps.Reservations,
			Availability: deps.Availability,
		}
		party := api.Party("/" + string(resource))
		party.Get("/availability/{invitationId:string}", handlers.GetAvailability)
		party.Get("/{invitationId:string}", handlers.Get)
		party.Post("/{invitationId:string}", handlers.Create)
		party.Put("/{invitationId:string}", handlers.Update)
		party.Delete("/{invitationId:string}", handlers.Delete)
	}

	return app
}
