package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"wedding-server/models"
	"wedding-server/services"
	"wedding-server/storage"
)

// ReservationHandlers serves one resource type; the same set is mounted
// under /lodging and /transportation.
type ReservationHandlers struct {
	Resource     models.ResourceType
	Store        storage.Store
	Reservations *services.Reservations
	Availability *services.Availability
}

// invitationFromPath resolves the invitation named in the URL; reservation
// endpoints derive the wedding from it rather than trusting the client.
func (h *ReservationHandlers) invitationFromPath(ctx iris.Context) (*models.Invitation, bool) {
	invitationID := ctx.Params().GetString("invitationId")
	if invitationID == "" {
		writeBadRequest(ctx, "invitationId is required")
		return nil, false
	}

	invitation, err := h.Store.FindInvitation(ctx.Request().Context(), invitationID)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Invitation not found with ID " + invitationID})
		return nil, false
	}
	return invitation, true
}

// GetAvailability reports the resource's capacity ledger for the
// invitation's wedding.
func (h *ReservationHandlers) GetAvailability(ctx iris.Context) {
	invitation, ok := h.invitationFromPath(ctx)
	if !ok {
		return
	}

	availability, err := h.Availability.Get(ctx.Request().Context(), invitation.WeddingID, h.Resource)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(availability)
}

// Get returns the invitation's reservation (nil when none exists) plus
// the availability snapshot.
func (h *ReservationHandlers) Get(ctx iris.Context) {
	invitation, ok := h.invitationFromPath(ctx)
	if !ok {
		return
	}

	reservation, availability, err := h.Reservations.Get(ctx.Request().Context(), h.Resource, invitation.WeddingID, invitation.ID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{
		"reservation":  reservation,
		"availability": availability,
	})
}

// Create makes a new reservation for the invitation.
func (h *ReservationHandlers) Create(ctx iris.Context) {
	invitation, ok := h.invitationFromPath(ctx)
	if !ok {
		return
	}

	input, ok := readReservationInput(ctx)
	if !ok {
		return
	}

	reservation, _, err := h.Reservations.Create(ctx.Request().Context(), h.Resource, invitation.WeddingID, invitation.ID, input)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(reservation)
}

// Update replaces the reservation's headcount.
func (h *ReservationHandlers) Update(ctx iris.Context) {
	invitation, ok := h.invitationFromPath(ctx)
	if !ok {
		return
	}

	input, ok := readReservationInput(ctx)
	if !ok {
		return
	}

	reservation, _, err := h.Reservations.Update(ctx.Request().Context(), h.Resource, invitation.WeddingID, invitation.ID, input)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(reservation)
}

// Delete cancels the reservation and releases its spots.
func (h *ReservationHandlers) Delete(ctx iris.Context) {
	invitation, ok := h.invitationFromPath(ctx)
	if !ok {
		return
	}

	releasedSpots, _, err := h.Reservations.Delete(ctx.Request().Context(), h.Resource, invitation.WeddingID, invitation.ID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{
		"message":       "Reservation deleted successfully",
		"releasedSpots": releasedSpots,
	})
}

func readReservationInput(ctx iris.Context) (services.ReservationInput, bool) {
	var input services.ReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		writeBadRequest(ctx, "Invalid request payload")
		return input, false
	}
	if err := validate.Struct(input); err != nil {
		writeBadRequest(ctx, err.Error())
		return input, false
	}
	return input, true
}
