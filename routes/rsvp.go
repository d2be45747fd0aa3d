package routes

import (
	"context"
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/services"
	"wedding-server/storage"
	"wedding-server/utils"
)

type RSVPHandlers struct {
	Store  storage.Store
	RSVP   *services.RSVP
	Mailer *utils.Mailer
	Log    zerolog.Logger
}

// Get returns the invitation for a guest's RSVP page.
func (h *RSVPHandlers) Get(ctx iris.Context) {
	invitationID := ctx.Params().GetString("invitationId")
	if invitationID == "" {
		writeBadRequest(ctx, "invitationId is required")
		return
	}

	invitation, err := h.Store.FindInvitation(ctx.Request().Context(), invitationID)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Guest not found with invitation ID " + invitationID})
		return
	}
	ctx.JSON(invitation)
}

// Update applies a partial RSVP update. The body is a free-form patch over
// the invitation document; a fully declined group releases any held
// reservations as part of the same commit.
func (h *RSVPHandlers) Update(ctx iris.Context) {
	invitationID := ctx.Params().GetString("invitationId")
	if invitationID == "" {
		writeBadRequest(ctx, "invitationId is required")
		return
	}

	var patch map[string]interface{}
	if err := ctx.ReadJSON(&patch); err != nil {
		writeBadRequest(ctx, "Invalid request payload")
		return
	}
	if len(patch) == 0 {
		writeBadRequest(ctx, "Update payload is empty")
		return
	}

	invitation, err := h.RSVP.ApplyUpdate(ctx.Request().Context(), invitationID, patch)
	if err != nil {
		writeError(ctx, err)
		return
	}

	h.notifyOrganizers(invitation)

	ctx.JSON(iris.Map{
		"message": "Guest updated successfully",
		"guest":   invitation,
	})
}

// notifyOrganizers emails the wedding's organizers about the response.
// Best effort: failures are logged, never surfaced to the guest.
func (h *RSVPHandlers) notifyOrganizers(invitation *models.Invitation) {
	if h.Mailer == nil {
		return
	}
	go func() {
		wedding, err := h.Store.FindWedding(context.Background(), invitation.WeddingID)
		if err != nil {
			h.Log.Warn().Err(err).Uint("weddingId", invitation.WeddingID).Msg("rsvp notification: wedding lookup failed")
			return
		}
		var recipients []string
		for _, user := range wedding.Users {
			if user != nil && user.Email != "" {
				recipients = append(recipients, user.Email)
			}
		}
		if err := h.Mailer.SendRSVPNotification(recipients, invitation); err != nil {
			h.Log.Warn().Err(err).Str("invitationId", invitation.ID).Msg("rsvp notification failed")
		}
	}()
}
