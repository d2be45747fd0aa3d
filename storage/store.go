package storage

import (
	"context"
	"errors"

	"wedding-server/models"
)

// Sentinel errors returned by Store implementations. The services layer
// classifies them into the domain error taxonomy.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("storage: record not found")
	// ErrDuplicate means a unique key is already taken.
	ErrDuplicate = errors.New("storage: duplicate record")
	// ErrCapacityExceeded means a conditional availability adjustment was
	// rejected because the post-delta value would fall outside
	// [0, total_spots].
	ErrCapacityExceeded = errors.New("storage: capacity exceeded")
	// ErrNotConfigured means no availability record exists for the
	// requested wedding and resource type.
	ErrNotConfigured = errors.New("storage: resource not configured")
)

// Store is the persistence boundary of the application. InTransaction runs
// fn against a store view whose writes either all commit or all roll back;
// every capacity-and-reservation mutation in the services layer goes
// through it.
type Store interface {
	// InTransaction executes fn inside a single atomic unit of work. The
	// Store passed to fn must be used for every access within the
	// transaction. Returning an error rolls back all writes.
	InTransaction(ctx context.Context, fn func(tx Store) error) error

	// GetAvailability returns the capacity ledger for a resource type.
	// ErrNotConfigured when the wedding never enabled the resource.
	GetAvailability(ctx context.Context, weddingID uint, resource models.ResourceType) (*models.ReservationAvailability, error)
	// CreateAvailability installs the ledger when a wedding enables a
	// resource type. ErrDuplicate if it already exists.
	CreateAvailability(ctx context.Context, availability *models.ReservationAvailability) error
	// SetAvailabilityTotal resizes the capacity of an existing ledger.
	// ErrCapacityExceeded when the new total is below the spots already
	// taken, ErrNotConfigured when no ledger exists.
	SetAvailabilityTotal(ctx context.Context, weddingID uint, resource models.ResourceType, totalSpots int) (*models.ReservationAvailability, error)
	// AdjustAvailability applies a signed spot delta as one atomic
	// conditional update: the bound check taken+delta within
	// [0, total_spots] and the increment are indivisible. Returns the
	// updated ledger, ErrCapacityExceeded when the bound check fails, or
	// ErrNotConfigured when no ledger exists.
	AdjustAvailability(ctx context.Context, weddingID uint, resource models.ResourceType, delta int) (*models.ReservationAvailability, error)

	FindReservation(ctx context.Context, weddingID uint, resource models.ResourceType, invitationID string) (*models.Reservation, error)
	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	ReplaceReservation(ctx context.Context, reservation *models.Reservation) error
	DeleteReservation(ctx context.Context, weddingID uint, resource models.ResourceType, invitationID string) error

	FindInvitation(ctx context.Context, invitationID string) (*models.Invitation, error)
	ListInvitations(ctx context.Context, weddingID uint) ([]models.Invitation, error)
	CreateInvitation(ctx context.Context, invitation *models.Invitation) error
	SaveInvitation(ctx context.Context, invitation *models.Invitation) error

	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	FindWedding(ctx context.Context, id uint) (*models.Wedding, error)
	ListWeddingsForUser(ctx context.Context, userID uint) ([]models.Wedding, error)
	CreateWedding(ctx context.Context, wedding *models.Wedding) error
	SaveWedding(ctx context.Context, wedding *models.Wedding) error
}
