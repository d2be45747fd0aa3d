package routes

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"

	"wedding-server/models"
	"wedding-server/storage"
)

type InvitationHandlers struct {
	Store storage.Store
}

type invitationCreatePayload struct {
	WeddingID    uint                  `json:"weddingId" validate:"required"`
	Type         models.InvitationType `json:"type" validate:"required"`
	MainGuest    models.Attendee       `json:"mainGuest"`
	HasCompanion bool                  `json:"hasCompanion"`
	Companion    models.Attendee       `json:"companion"`
	HasChildren  bool                  `json:"hasChildren"`
	Children     models.AttendeeList   `json:"children"`
}

// Create registers a new invitation for a wedding the organizer belongs
// to. The invitation id is the opaque token embedded in the RSVP link.
func (h *InvitationHandlers) Create(ctx iris.Context) {
	var payload invitationCreatePayload
	if err := ctx.ReadJSON(&payload); err != nil {
		writeBadRequest(ctx, "Invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(ctx, err.Error())
		return
	}
	if !payload.Type.Valid() {
		writeBadRequest(ctx, "type must be single, couple or family")
		return
	}
	if payload.MainGuest.Name == "" {
		writeBadRequest(ctx, "mainGuest.name is required")
		return
	}
	if payload.HasCompanion != (payload.Companion.Name != "") {
		writeBadRequest(ctx, "hasCompanion must match companion presence")
		return
	}
	if payload.HasChildren != (len(payload.Children) > 0) {
		writeBadRequest(ctx, "hasChildren must match children presence")
		return
	}

	reqCtx := ctx.Request().Context()

	wedding, err := h.Store.FindWedding(reqCtx, payload.WeddingID)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Wedding not found"})
		return
	}
	user := currentUser(ctx)
	if !wedding.HasUser(user.ID) && !user.IsAdmin {
		ctx.StatusCode(http.StatusForbidden)
		ctx.JSON(iris.Map{"error": "You are not authorized to add guests to this wedding"})
		return
	}

	invitation := &models.Invitation{
		ID:           uuid.NewString(),
		WeddingID:    payload.WeddingID,
		Type:         payload.Type,
		MainGuest:    payload.MainGuest,
		HasCompanion: payload.HasCompanion,
		Companion:    payload.Companion,
		HasChildren:  payload.HasChildren,
		Children:     payload.Children,
	}
	if err := h.Store.CreateInvitation(reqCtx, invitation); err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create invitation"})
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(invitation)
}

// ListByWedding returns every invitation of a wedding for its organizers.
func (h *InvitationHandlers) ListByWedding(ctx iris.Context) {
	weddingID := ctx.Params().GetUintDefault("weddingId", 0)
	if weddingID == 0 {
		writeBadRequest(ctx, "Invalid wedding ID")
		return
	}

	reqCtx := ctx.Request().Context()
	wedding, err := h.Store.FindWedding(reqCtx, weddingID)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Wedding not found"})
		return
	}
	user := currentUser(ctx)
	if !wedding.HasUser(user.ID) && !user.IsAdmin {
		ctx.StatusCode(http.StatusForbidden)
		ctx.JSON(iris.Map{"error": "You are not authorized to view guests for this wedding"})
		return
	}

	invitations, err := h.Store.ListInvitations(reqCtx, weddingID)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to retrieve invitations"})
		return
	}
	ctx.JSON(invitations)
}

// Get is the public invitation lookup used by the RSVP page.
func (h *InvitationHandlers) Get(ctx iris.Context) {
	invitationID := ctx.Params().GetString("invitationId")
	if invitationID == "" {
		writeBadRequest(ctx, "invitationId is required")
		return
	}

	invitation, err := h.Store.FindInvitation(ctx.Request().Context(), invitationID)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Invitation not found with ID " + invitationID})
		return
	}
	ctx.JSON(invitation)
}
