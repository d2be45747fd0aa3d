package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/storage"
)

// RSVP applies guest responses to an invitation. When an update leaves
// every attendee explicitly declined, any outstanding lodging and
// transportation reservations are released in the same transaction that
// writes the invitation, so a failure leaves reservations, availability
// and attendee fields all unchanged.
type RSVP struct {
	store        storage.Store
	availability *Availability
	log          zerolog.Logger
}

func NewRSVP(store storage.Store, availability *Availability, log zerolog.Logger) *RSVP {
	return &RSVP{store: store, availability: availability, log: log}
}

// fields guests must not overwrite through the RSVP patch.
var protectedInvitationFields = []string{"invitationId", "weddingId", "createdAt", "lastModified"}

// ApplyUpdate merges the RSVP patch over the stored invitation and
// persists the result, cascading reservation releases when nobody in the
// group is attending anymore.
func (s *RSVP) ApplyUpdate(ctx context.Context, invitationID string, patch map[string]interface{}) (*models.Invitation, error) {
	current, err := s.store.FindInvitation(ctx, invitationID)
	if err != nil {
		return nil, classify(err, "", invitationID)
	}

	updated, err := mergeInvitation(current, patch)
	if err != nil {
		return nil, &Error{Code: CodeInternal, InvitationID: invitationID, Message: "invalid RSVP update", Err: err}
	}

	if !updated.EveryoneDeclined() {
		if err := s.store.SaveInvitation(ctx, updated); err != nil {
			return nil, classify(err, "", invitationID)
		}
		return updated, nil
	}

	// Nobody attending: release held spots and apply the attendee fields
	// as one atomic unit.
	var released []models.ResourceType
	txErr := s.store.InTransaction(ctx, func(tx storage.Store) error {
		for _, resource := range models.ResourceTypes {
			ok, err := releaseReservation(ctx, tx, current.WeddingID, resource, invitationID)
			if err != nil {
				return err
			}
			if ok {
				released = append(released, resource)
			}
		}
		return tx.SaveInvitation(ctx, updated)
	})
	if txErr != nil {
		s.log.Error().Err(txErr).Str("invitationId", invitationID).Msg("rsvp cascade rolled back")
		return nil, &Error{
			Code:         CodeRSVPCascadeFailed,
			InvitationID: invitationID,
			Message:      "could not update RSVP and release reservations",
			Err:          txErr,
		}
	}

	for _, resource := range released {
		s.availability.Invalidate(ctx, current.WeddingID, resource)
		s.log.Info().
			Str("resource", string(resource)).
			Str("invitationId", invitationID).
			Msg("reservation released by declined RSVP")
	}
	return updated, nil
}

// releaseReservation frees a held reservation inside tx. A missing
// reservation is not an error; a failed capacity adjustment is a hard
// transaction failure, never a silent skip.
func releaseReservation(ctx context.Context, tx storage.Store, weddingID uint, resource models.ResourceType, invitationID string) (bool, error) {
	reservation, err := tx.FindReservation(ctx, weddingID, resource, invitationID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := tx.AdjustAvailability(ctx, weddingID, resource, -reservation.Spots()); err != nil {
		return false, err
	}
	if err := tx.DeleteReservation(ctx, weddingID, resource, invitationID); err != nil {
		return false, err
	}
	return true, nil
}

// mergeInvitation applies the patch through the generic tree merge and
// decodes the result back into an invitation, keeping identity fields
// intact.
func mergeInvitation(current *models.Invitation, patch map[string]interface{}) (*models.Invitation, error) {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	var currentTree map[string]interface{}
	if err := json.Unmarshal(currentJSON, &currentTree); err != nil {
		return nil, err
	}

	sanitized := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		sanitized[k] = v
	}
	for _, field := range protectedInvitationFields {
		delete(sanitized, field)
	}

	merged := MergePatch(currentTree, sanitized)
	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	var updated models.Invitation
	if err := json.Unmarshal(mergedJSON, &updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.WeddingID = current.WeddingID
	updated.CreatedAt = current.CreatedAt
	updated.LastModified = current.LastModified
	return &updated, nil
}
