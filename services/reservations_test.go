package services

import (
	"context"
	"sync"
	"testing"

	"wedding-server/models"
	"wedding-server/storage"
)

func TestReservationLifecycle(t *testing.T) {
	store, _, reservations, _ := newTestEnv(t)
	ctx := context.Background()
	seedAvailability(t, store, models.ResourceLodging, 10, 0)

	t.Run("create consumes spots", func(t *testing.T) {
		created, availability, err := reservations.Create(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{
			Adults:   2,
			Children: 1,
			Guests: models.GuestDetailList{
				{Name: "Ana", Type: "adult"},
				{Name: "Luis", Type: "adult"},
				{Name: "Mia", Type: "child"},
			},
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.Adults != 2 || created.Children != 1 {
			t.Errorf("reservation counts = %d adults %d children, want 2 and 1", created.Adults, created.Children)
		}
		if availability.TakenSpots != 3 {
			t.Errorf("takenSpots = %d, want 3", availability.TakenSpots)
		}
	})

	t.Run("duplicate create conflicts and leaves spots unchanged", func(t *testing.T) {
		_, _, err := reservations.Create(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 1})
		wantCode(t, err, CodeDuplicateReservation)
		if got := takenSpots(t, store, models.ResourceLodging); got != 3 {
			t.Errorf("takenSpots = %d, want 3", got)
		}
	})

	t.Run("update applies the spot difference", func(t *testing.T) {
		updated, availability, err := reservations.Update(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 5, Children: 3})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Spots() != 8 {
			t.Errorf("reservation spots = %d, want 8", updated.Spots())
		}
		if availability.TakenSpots != 8 {
			t.Errorf("takenSpots = %d, want 8", availability.TakenSpots)
		}
	})

	t.Run("growing past the pool fails and changes nothing", func(t *testing.T) {
		_, _, err := reservations.Update(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 8, Children: 5})
		wantCode(t, err, CodeInsufficientCapacity)
		if got := takenSpots(t, store, models.ResourceLodging); got != 8 {
			t.Errorf("takenSpots = %d, want 8", got)
		}
		reservation, err := store.FindReservation(ctx, testWeddingID, models.ResourceLodging, "INV1")
		if err != nil {
			t.Fatalf("FindReservation() error = %v", err)
		}
		if reservation.Adults != 5 || reservation.Children != 3 {
			t.Errorf("reservation = %d adults %d children, want unchanged 5 and 3", reservation.Adults, reservation.Children)
		}
	})

	t.Run("delete releases the held spots", func(t *testing.T) {
		releasedSpots, availability, err := reservations.Delete(ctx, models.ResourceLodging, testWeddingID, "INV1")
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if releasedSpots != 8 {
			t.Errorf("releasedSpots = %d, want 8", releasedSpots)
		}
		if availability.TakenSpots != 0 {
			t.Errorf("takenSpots = %d, want 0", availability.TakenSpots)
		}
	})
}

func TestCreateInsufficientCapacityIsAtomic(t *testing.T) {
	store, _, reservations, _ := newTestEnv(t)
	ctx := context.Background()
	seedAvailability(t, store, models.ResourceLodging, 4, 0)

	_, _, err := reservations.Create(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 3, Children: 2})
	wantCode(t, err, CodeInsufficientCapacity)

	if got := takenSpots(t, store, models.ResourceLodging); got != 0 {
		t.Errorf("takenSpots = %d, want 0 after rejected create", got)
	}
	if _, err := store.FindReservation(ctx, testWeddingID, models.ResourceLodging, "INV1"); err != storage.ErrNotFound {
		t.Errorf("FindReservation() error = %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicateRollsBackCapacity(t *testing.T) {
	// The duplicate check inside the transaction must undo the capacity
	// adjustment that already succeeded.
	store, _, reservations, _ := newTestEnv(t)
	ctx := context.Background()
	seedAvailability(t, store, models.ResourceLodging, 10, 0)

	if _, _, err := reservations.Create(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 2}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, _, err := reservations.Create(ctx, models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 4})
	wantCode(t, err, CodeDuplicateReservation)

	if got := takenSpots(t, store, models.ResourceLodging); got != 2 {
		t.Errorf("takenSpots = %d, want 2", got)
	}
}

func TestUpdateMissingReservation(t *testing.T) {
	store, _, reservations, _ := newTestEnv(t)
	seedAvailability(t, store, models.ResourceTransportation, 10, 0)

	_, _, err := reservations.Update(context.Background(), models.ResourceTransportation, testWeddingID, "NOPE", ReservationInput{Adults: 1})
	wantCode(t, err, CodeNotFound)
}

func TestCreateUnconfiguredResource(t *testing.T) {
	_, _, reservations, _ := newTestEnv(t)

	_, _, err := reservations.Create(context.Background(), models.ResourceLodging, testWeddingID, "INV1", ReservationInput{Adults: 1})
	wantCode(t, err, CodeNotConfigured)
}

func TestConcurrentCreatesForLastSpot(t *testing.T) {
	store, _, reservations, _ := newTestEnv(t)
	ctx := context.Background()
	seedAvailability(t, store, models.ResourceLodging, 5, 4)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, invitationID := range []string{"INV-A", "INV-B"} {
		wg.Add(1)
		go func(i int, invitationID string) {
			defer wg.Done()
			_, _, errs[i] = reservations.Create(ctx, models.ResourceLodging, testWeddingID, invitationID, ReservationInput{Adults: 1})
		}(i, invitationID)
	}
	wg.Wait()

	var successes, capacityFailures int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			svcErr, ok := AsError(err)
			if !ok || svcErr.Code != CodeInsufficientCapacity {
				t.Fatalf("unexpected error %v", err)
			}
			capacityFailures++
		}
	}
	if successes != 1 || capacityFailures != 1 {
		t.Errorf("successes = %d, capacity failures = %d, want exactly one of each", successes, capacityFailures)
	}
	if got := takenSpots(t, store, models.ResourceLodging); got != 5 {
		t.Errorf("takenSpots = %d, want 5", got)
	}
}

func TestTakenSpotsMirrorsReservations(t *testing.T) {
	store, _, reservations, _ := newTestEnv(t)
	ctx := context.Background()
	seedAvailability(t, store, models.ResourceLodging, 20, 0)

	parties := map[string]ReservationInput{
		"INV1": {Adults: 2, Children: 1},
		"INV2": {Adults: 1},
		"INV3": {Adults: 2, Children: 3},
	}
	for invitationID, input := range parties {
		if _, _, err := reservations.Create(ctx, models.ResourceLodging, testWeddingID, invitationID, input); err != nil {
			t.Fatalf("Create(%s) error = %v", invitationID, err)
		}
	}
	if _, _, err := reservations.Delete(ctx, models.ResourceLodging, testWeddingID, "INV2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, _, err := reservations.Update(ctx, models.ResourceLodging, testWeddingID, "INV3", ReservationInput{Adults: 1, Children: 1}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	sum := 0
	for _, invitationID := range []string{"INV1", "INV3"} {
		reservation, err := store.FindReservation(ctx, testWeddingID, models.ResourceLodging, invitationID)
		if err != nil {
			t.Fatalf("FindReservation(%s) error = %v", invitationID, err)
		}
		sum += reservation.Spots()
	}
	if got := takenSpots(t, store, models.ResourceLodging); got != sum {
		t.Errorf("takenSpots = %d, want sum of reservation spots %d", got, sum)
	}
}

func TestAvailabilityReadIsIdempotent(t *testing.T) {
	store, availability, _, _ := newTestEnv(t)
	seedAvailability(t, store, models.ResourceTransportation, 7, 2)
	ctx := context.Background()

	first, err := availability.Get(ctx, testWeddingID, models.ResourceTransportation)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := availability.Get(ctx, testWeddingID, models.ResourceTransportation)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first.TotalSpots != second.TotalSpots || first.TakenSpots != second.TakenSpots {
		t.Errorf("consecutive reads differ: %+v then %+v", first, second)
	}
}
