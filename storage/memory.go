package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wedding-server/models"
)

// MemoryStore is a Store kept entirely in process memory. A single mutex
// serializes every operation, which makes the availability bound check and
// increment indivisible; transactions snapshot the data set and restore it
// on rollback. It backs the test suite and small single-process deploys.
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
	inTx bool
}

type memoryData struct {
	availabilities map[string]models.ReservationAvailability
	reservations   map[string]models.Reservation
	invitations    map[string]models.Invitation
	users          map[uint]models.User
	weddings       map[uint]models.Wedding
	nextID         uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memoryData{
		availabilities: map[string]models.ReservationAvailability{},
		reservations:   map[string]models.Reservation{},
		invitations:    map[string]models.Invitation{},
		users:          map[uint]models.User{},
		weddings:       map[uint]models.Wedding{},
		nextID:         1,
	}}
}

func availabilityKey(weddingID uint, resource models.ResourceType) string {
	return fmt.Sprintf("%d/%s", weddingID, resource)
}

func reservationKey(weddingID uint, resource models.ResourceType, invitationID string) string {
	return fmt.Sprintf("%d/%s/%s", weddingID, resource, invitationID)
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		availabilities: make(map[string]models.ReservationAvailability, len(d.availabilities)),
		reservations:   make(map[string]models.Reservation, len(d.reservations)),
		invitations:    make(map[string]models.Invitation, len(d.invitations)),
		users:          make(map[uint]models.User, len(d.users)),
		weddings:       make(map[uint]models.Wedding, len(d.weddings)),
		nextID:         d.nextID,
	}
	for k, v := range d.availabilities {
		c.availabilities[k] = v
	}
	for k, v := range d.reservations {
		v.Guests = append(models.GuestDetailList(nil), v.Guests...)
		c.reservations[k] = v
	}
	for k, v := range d.invitations {
		v.Children = append(models.AttendeeList(nil), v.Children...)
		c.invitations[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.weddings {
		v.Users = append([]*models.User(nil), v.Users...)
		c.weddings[k] = v
	}
	return c
}

func (s *MemoryStore) nextID() uint {
	id := s.data.nextID
	s.data.nextID++
	return id
}

func (s *MemoryStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		// Nested scopes just join the outer transaction.
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&MemoryStore{data: s.data, inTx: true}); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// lock is a no-op inside a transaction, where the outer store already holds
// the mutex.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) GetAvailability(ctx context.Context, weddingID uint, resource models.ResourceType) (*models.ReservationAvailability, error) {
	defer s.lock()()
	availability, ok := s.data.availabilities[availabilityKey(weddingID, resource)]
	if !ok {
		return nil, ErrNotConfigured
	}
	return &availability, nil
}

func (s *MemoryStore) CreateAvailability(ctx context.Context, availability *models.ReservationAvailability) error {
	defer s.lock()()
	key := availabilityKey(availability.WeddingID, availability.ResourceType)
	if _, ok := s.data.availabilities[key]; ok {
		return ErrDuplicate
	}
	availability.ID = s.nextID()
	s.data.availabilities[key] = *availability
	return nil
}

func (s *MemoryStore) SetAvailabilityTotal(ctx context.Context, weddingID uint, resource models.ResourceType, totalSpots int) (*models.ReservationAvailability, error) {
	defer s.lock()()
	key := availabilityKey(weddingID, resource)
	availability, ok := s.data.availabilities[key]
	if !ok {
		return nil, ErrNotConfigured
	}
	if availability.TakenSpots > totalSpots {
		return nil, ErrCapacityExceeded
	}
	availability.TotalSpots = totalSpots
	s.data.availabilities[key] = availability
	return &availability, nil
}

func (s *MemoryStore) AdjustAvailability(ctx context.Context, weddingID uint, resource models.ResourceType, delta int) (*models.ReservationAvailability, error) {
	defer s.lock()()
	key := availabilityKey(weddingID, resource)
	availability, ok := s.data.availabilities[key]
	if !ok {
		return nil, ErrNotConfigured
	}
	next := availability.TakenSpots + delta
	if next < 0 || next > availability.TotalSpots {
		return nil, ErrCapacityExceeded
	}
	availability.TakenSpots = next
	s.data.availabilities[key] = availability
	return &availability, nil
}

func (s *MemoryStore) FindReservation(ctx context.Context, weddingID uint, resource models.ResourceType, invitationID string) (*models.Reservation, error) {
	defer s.lock()()
	reservation, ok := s.data.reservations[reservationKey(weddingID, resource, invitationID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &reservation, nil
}

func (s *MemoryStore) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	defer s.lock()()
	key := reservationKey(reservation.WeddingID, reservation.ResourceType, reservation.InvitationID)
	if _, ok := s.data.reservations[key]; ok {
		return ErrDuplicate
	}
	reservation.ID = s.nextID()
	reservation.CreatedAt = time.Now()
	s.data.reservations[key] = *reservation
	return nil
}

func (s *MemoryStore) ReplaceReservation(ctx context.Context, reservation *models.Reservation) error {
	defer s.lock()()
	key := reservationKey(reservation.WeddingID, reservation.ResourceType, reservation.InvitationID)
	reservation.UpdatedAt = time.Now()
	s.data.reservations[key] = *reservation
	return nil
}

func (s *MemoryStore) DeleteReservation(ctx context.Context, weddingID uint, resource models.ResourceType, invitationID string) error {
	defer s.lock()()
	key := reservationKey(weddingID, resource, invitationID)
	if _, ok := s.data.reservations[key]; !ok {
		return ErrNotFound
	}
	delete(s.data.reservations, key)
	return nil
}

func (s *MemoryStore) FindInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	defer s.lock()()
	invitation, ok := s.data.invitations[invitationID]
	if !ok {
		return nil, ErrNotFound
	}
	return &invitation, nil
}

func (s *MemoryStore) ListInvitations(ctx context.Context, weddingID uint) ([]models.Invitation, error) {
	defer s.lock()()
	var invitations []models.Invitation
	for _, invitation := range s.data.invitations {
		if invitation.WeddingID == weddingID {
			invitations = append(invitations, invitation)
		}
	}
	return invitations, nil
}

func (s *MemoryStore) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	defer s.lock()()
	if _, ok := s.data.invitations[invitation.ID]; ok {
		return ErrDuplicate
	}
	invitation.CreatedAt = time.Now()
	s.data.invitations[invitation.ID] = *invitation
	return nil
}

func (s *MemoryStore) SaveInvitation(ctx context.Context, invitation *models.Invitation) error {
	defer s.lock()()
	now := time.Now()
	invitation.LastModified = &now
	s.data.invitations[invitation.ID] = *invitation
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.lock()()
	for _, user := range s.data.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	defer s.lock()()
	user, ok := s.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	for _, existing := range s.data.users {
		if existing.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = s.nextID()
	user.CreatedAt = time.Now()
	s.data.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) FindWedding(ctx context.Context, id uint) (*models.Wedding, error) {
	defer s.lock()()
	wedding, ok := s.data.weddings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &wedding, nil
}

func (s *MemoryStore) ListWeddingsForUser(ctx context.Context, userID uint) ([]models.Wedding, error) {
	defer s.lock()()
	var weddings []models.Wedding
	for _, wedding := range s.data.weddings {
		if wedding.HasUser(userID) {
			weddings = append(weddings, wedding)
		}
	}
	return weddings, nil
}

func (s *MemoryStore) CreateWedding(ctx context.Context, wedding *models.Wedding) error {
	defer s.lock()()
	wedding.ID = s.nextID()
	wedding.CreatedAt = time.Now()
	s.data.weddings[wedding.ID] = *wedding
	return nil
}

func (s *MemoryStore) SaveWedding(ctx context.Context, wedding *models.Wedding) error {
	defer s.lock()()
	wedding.UpdatedAt = time.Now()
	s.data.weddings[wedding.ID] = *wedding
	return nil
}
