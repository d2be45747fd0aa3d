package storage

import (
	"context"
	"errors"
	"testing"

	"wedding-server/models"
)

func newSeededStore(t *testing.T, total, taken int) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	err := store.CreateAvailability(context.Background(), &models.ReservationAvailability{
		WeddingID:    1,
		ResourceType: models.ResourceLodging,
		TotalSpots:   total,
		TakenSpots:   taken,
	})
	if err != nil {
		t.Fatalf("CreateAvailability() error = %v", err)
	}
	return store
}

func TestAdjustAvailabilityBounds(t *testing.T) {
	ctx := context.Background()

	t.Run("within bounds", func(t *testing.T) {
		store := newSeededStore(t, 10, 3)
		availability, err := store.AdjustAvailability(ctx, 1, models.ResourceLodging, 4)
		if err != nil {
			t.Fatalf("AdjustAvailability() error = %v", err)
		}
		if availability.TakenSpots != 7 {
			t.Errorf("takenSpots = %d, want 7", availability.TakenSpots)
		}
	})

	t.Run("exceeding total rejected", func(t *testing.T) {
		store := newSeededStore(t, 10, 8)
		_, err := store.AdjustAvailability(ctx, 1, models.ResourceLodging, 3)
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("error = %v, want ErrCapacityExceeded", err)
		}
		availability, _ := store.GetAvailability(ctx, 1, models.ResourceLodging)
		if availability.TakenSpots != 8 {
			t.Errorf("takenSpots = %d, want 8 after rejected adjust", availability.TakenSpots)
		}
	})

	t.Run("going below zero rejected", func(t *testing.T) {
		store := newSeededStore(t, 10, 2)
		if _, err := store.AdjustAvailability(ctx, 1, models.ResourceLodging, -3); !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("error = %v, want ErrCapacityExceeded", err)
		}
	})

	t.Run("unknown ledger", func(t *testing.T) {
		store := NewMemoryStore()
		if _, err := store.AdjustAvailability(ctx, 1, models.ResourceLodging, 1); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("error = %v, want ErrNotConfigured", err)
		}
	})
}

func TestSetAvailabilityTotal(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t, 10, 6)

	availability, err := store.SetAvailabilityTotal(ctx, 1, models.ResourceLodging, 8)
	if err != nil {
		t.Fatalf("SetAvailabilityTotal() error = %v", err)
	}
	if availability.TotalSpots != 8 {
		t.Errorf("totalSpots = %d, want 8", availability.TotalSpots)
	}

	if _, err := store.SetAvailabilityTotal(ctx, 1, models.ResourceLodging, 5); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("shrinking below taken spots: error = %v, want ErrCapacityExceeded", err)
	}
}

func TestCreateReservationDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	reservation := &models.Reservation{WeddingID: 1, ResourceType: models.ResourceLodging, InvitationID: "INV1", Adults: 2}
	if err := store.CreateReservation(ctx, reservation); err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	err := store.CreateReservation(ctx, &models.Reservation{WeddingID: 1, ResourceType: models.ResourceLodging, InvitationID: "INV1", Adults: 1})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("error = %v, want ErrDuplicate", err)
	}

	// Same invitation may still reserve the other resource type.
	if err := store.CreateReservation(ctx, &models.Reservation{WeddingID: 1, ResourceType: models.ResourceTransportation, InvitationID: "INV1", Adults: 1}); err != nil {
		t.Errorf("CreateReservation(transportation) error = %v", err)
	}
}

func TestInTransactionRollsBackAllWrites(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t, 10, 0)

	boom := errors.New("boom")
	err := store.InTransaction(ctx, func(tx Store) error {
		if _, err := tx.AdjustAvailability(ctx, 1, models.ResourceLodging, 5); err != nil {
			return err
		}
		if err := tx.CreateReservation(ctx, &models.Reservation{WeddingID: 1, ResourceType: models.ResourceLodging, InvitationID: "INV1", Adults: 5}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTransaction() error = %v, want boom", err)
	}

	availability, _ := store.GetAvailability(ctx, 1, models.ResourceLodging)
	if availability.TakenSpots != 0 {
		t.Errorf("takenSpots = %d, want 0 after rollback", availability.TakenSpots)
	}
	if _, err := store.FindReservation(ctx, 1, models.ResourceLodging, "INV1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindReservation() error = %v, want ErrNotFound", err)
	}
}

func TestInTransactionCommits(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t, 10, 0)

	err := store.InTransaction(ctx, func(tx Store) error {
		_, err := tx.AdjustAvailability(ctx, 1, models.ResourceLodging, 2)
		return err
	})
	if err != nil {
		t.Fatalf("InTransaction() error = %v", err)
	}
	availability, _ := store.GetAvailability(ctx, 1, models.ResourceLodging)
	if availability.TakenSpots != 2 {
		t.Errorf("takenSpots = %d, want 2 after commit", availability.TakenSpots)
	}
}
