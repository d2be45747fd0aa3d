package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/storage"
)

const testWeddingID uint = 1

func newTestEnv(t *testing.T) (*storage.MemoryStore, *Availability, *Reservations, *RSVP) {
	t.Helper()
	store := storage.NewMemoryStore()
	availability := NewAvailability(store, nil, zerolog.Nop())
	reservations := NewReservations(store, availability, zerolog.Nop())
	rsvp := NewRSVP(store, availability, zerolog.Nop())
	return store, availability, reservations, rsvp
}

func seedAvailability(t *testing.T, store storage.Store, resource models.ResourceType, total, taken int) {
	t.Helper()
	err := store.CreateAvailability(context.Background(), &models.ReservationAvailability{
		WeddingID:    testWeddingID,
		ResourceType: resource,
		TotalSpots:   total,
		TakenSpots:   taken,
	})
	if err != nil {
		t.Fatalf("CreateAvailability() error = %v", err)
	}
}

func boolPtr(b bool) *bool { return &b }

func seedInvitation(t *testing.T, store storage.Store, id string) *models.Invitation {
	t.Helper()
	invitation := &models.Invitation{
		ID:           id,
		WeddingID:    testWeddingID,
		Type:         models.InvitationFamily,
		MainGuest:    models.Attendee{Name: "Ana", Attending: boolPtr(true)},
		HasCompanion: true,
		Companion:    models.Attendee{Name: "Luis", Attending: boolPtr(true)},
		HasChildren:  true,
		Children: models.AttendeeList{
			{Name: "Mia", Attending: boolPtr(true)},
		},
	}
	if err := store.CreateInvitation(context.Background(), invitation); err != nil {
		t.Fatalf("CreateInvitation() error = %v", err)
	}
	return invitation
}

func takenSpots(t *testing.T, store storage.Store, resource models.ResourceType) int {
	t.Helper()
	availability, err := store.GetAvailability(context.Background(), testWeddingID, resource)
	if err != nil {
		t.Fatalf("GetAvailability() error = %v", err)
	}
	return availability.TakenSpots
}

func wantCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	svcErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected service error, got %v", err)
	}
	if svcErr.Code != code {
		t.Fatalf("error code = %s, want %s", svcErr.Code, code)
	}
}
