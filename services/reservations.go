package services

import (
	"context"

	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/storage"
)

// ReservationInput is the validated payload for creating or replacing a
// reservation.
type ReservationInput struct {
	Adults   int                    `json:"adults" validate:"min=0"`
	Children int                    `json:"children" validate:"min=0"`
	Guests   models.GuestDetailList `json:"guests"`
}

// Spots is the capacity the input consumes.
func (in ReservationInput) Spots() int {
	return in.Adults + in.Children
}

// Reservations orchestrates the atomic capacity-plus-reservation
// operations. Every mutation runs the availability adjustment and the
// reservation write inside one storage transaction, so a failed bound
// check or a duplicate insert leaves both untouched. The same code path
// serves lodging and transportation.
type Reservations struct {
	store        storage.Store
	availability *Availability
	log          zerolog.Logger
}

func NewReservations(store storage.Store, availability *Availability, log zerolog.Logger) *Reservations {
	return &Reservations{store: store, availability: availability, log: log}
}

// Get returns an invitation's reservation together with the current
// availability snapshot.
func (s *Reservations) Get(ctx context.Context, resource models.ResourceType, weddingID uint, invitationID string) (*models.Reservation, *models.ReservationAvailability, error) {
	availability, err := s.availability.Get(ctx, weddingID, resource)
	if err != nil {
		return nil, nil, err
	}
	reservation, err := s.store.FindReservation(ctx, weddingID, resource, invitationID)
	if err != nil && !isStorageNotFound(err) {
		return nil, nil, classify(err, resource, invitationID)
	}
	return reservation, availability, nil
}

// Create claims the requested spots and inserts the reservation in one
// atomic unit. Fails with InsufficientCapacity when the pool cannot cover
// the party, or DuplicateReservation when the invitation already holds one.
func (s *Reservations) Create(ctx context.Context, resource models.ResourceType, weddingID uint, invitationID string, input ReservationInput) (*models.Reservation, *models.ReservationAvailability, error) {
	var (
		reservation  *models.Reservation
		availability *models.ReservationAvailability
	)
	err := s.store.InTransaction(ctx, func(tx storage.Store) error {
		updated, err := tx.AdjustAvailability(ctx, weddingID, resource, input.Spots())
		if err != nil {
			return err
		}
		created := &models.Reservation{
			WeddingID:    weddingID,
			ResourceType: resource,
			InvitationID: invitationID,
			Adults:       input.Adults,
			Children:     input.Children,
			Guests:       input.Guests,
		}
		// The unique index re-validates the duplicate check inside the
		// transaction; a conflict rolls back the capacity adjustment.
		if err := tx.CreateReservation(ctx, created); err != nil {
			return err
		}
		reservation, availability = created, updated
		return nil
	})
	if err != nil {
		return nil, nil, classify(err, resource, invitationID)
	}

	s.availability.Invalidate(ctx, weddingID, resource)
	s.log.Info().
		Str("resource", string(resource)).
		Str("invitationId", invitationID).
		Int("spots", input.Spots()).
		Int("takenSpots", availability.TakenSpots).
		Msg("reservation created")
	return reservation, availability, nil
}

// Update replaces a reservation's headcount, adjusting the ledger by the
// spot difference. The bound check applies uniformly; a negative diff
// simply always passes it.
func (s *Reservations) Update(ctx context.Context, resource models.ResourceType, weddingID uint, invitationID string, input ReservationInput) (*models.Reservation, *models.ReservationAvailability, error) {
	var (
		reservation  *models.Reservation
		availability *models.ReservationAvailability
	)
	err := s.store.InTransaction(ctx, func(tx storage.Store) error {
		existing, err := tx.FindReservation(ctx, weddingID, resource, invitationID)
		if err != nil {
			return err
		}
		spotsDiff := input.Spots() - existing.Spots()
		updated, err := tx.AdjustAvailability(ctx, weddingID, resource, spotsDiff)
		if err != nil {
			return err
		}
		existing.Adults = input.Adults
		existing.Children = input.Children
		existing.Guests = input.Guests
		if err := tx.ReplaceReservation(ctx, existing); err != nil {
			return err
		}
		reservation, availability = existing, updated
		return nil
	})
	if err != nil {
		return nil, nil, classify(err, resource, invitationID)
	}

	s.availability.Invalidate(ctx, weddingID, resource)
	s.log.Info().
		Str("resource", string(resource)).
		Str("invitationId", invitationID).
		Int("spots", input.Spots()).
		Int("takenSpots", availability.TakenSpots).
		Msg("reservation updated")
	return reservation, availability, nil
}

// Delete removes a reservation and releases its spots in one atomic unit.
// Returns how many spots were released.
func (s *Reservations) Delete(ctx context.Context, resource models.ResourceType, weddingID uint, invitationID string) (int, *models.ReservationAvailability, error) {
	var (
		releasedSpots int
		availability  *models.ReservationAvailability
	)
	err := s.store.InTransaction(ctx, func(tx storage.Store) error {
		existing, err := tx.FindReservation(ctx, weddingID, resource, invitationID)
		if err != nil {
			return err
		}
		releasedSpots = existing.Spots()
		updated, err := tx.AdjustAvailability(ctx, weddingID, resource, -releasedSpots)
		if err != nil {
			return err
		}
		if err := tx.DeleteReservation(ctx, weddingID, resource, invitationID); err != nil {
			return err
		}
		availability = updated
		return nil
	})
	if err != nil {
		return 0, nil, classify(err, resource, invitationID)
	}

	s.availability.Invalidate(ctx, weddingID, resource)
	s.log.Info().
		Str("resource", string(resource)).
		Str("invitationId", invitationID).
		Int("releasedSpots", releasedSpots).
		Int("takenSpots", availability.TakenSpots).
		Msg("reservation deleted")
	return releasedSpots, availability, nil
}
