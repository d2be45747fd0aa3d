package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"wedding-server/models"
)

// GormStore implements Store on top of a gorm-managed Postgres database.
// The availability adjustment is a single conditional UPDATE so the bound
// check and the increment cannot be interleaved by concurrent requests.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetAvailability(ctx context.Context, weddingID uint, resource models.ResourceType) (*models.ReservationAvailability, error) {
	var availability models.ReservationAvailability
	err := s.db.WithContext(ctx).
		Where("wedding_id = ? AND resource_type = ?", weddingID, resource).
		First(&availability).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

func (s *GormStore) CreateAvailability(ctx context.Context, availability *models.ReservationAvailability) error {
	err := s.db.WithContext(ctx).Create(availability).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) SetAvailabilityTotal(ctx context.Context, weddingID uint, resource models.ResourceType, totalSpots int) (*models.ReservationAvailability, error) {
	result := s.db.WithContext(ctx).Model(&models.ReservationAvailability{}).
		Where("wedding_id = ? AND resource_type = ? AND taken_spots <= ?", weddingID, resource, totalSpots).
		UpdateColumn("total_spots", totalSpots)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var availability models.ReservationAvailability
		err := s.db.WithContext(ctx).
			Where("wedding_id = ? AND resource_type = ?", weddingID, resource).
			First(&availability).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConfigured
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrCapacityExceeded
	}
	return s.GetAvailability(ctx, weddingID, resource)
}

func (s *GormStore) AdjustAvailability(ctx context.Context, weddingID uint, resource models.ResourceType, delta int) (*models.ReservationAvailability, error) {
	// The bound check is part of the WHERE clause, so check and increment
	// happen as one atomic row update.
	result := s.db.WithContext(ctx).Model(&models.ReservationAvailability{}).
		Where("wedding_id = ? AND resource_type = ?", weddingID, resource).
		Where("taken_spots + ? <= total_spots AND taken_spots + ? >= 0", delta, delta).
		UpdateColumn("taken_spots", gorm.Expr("taken_spots + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either no ledger exists or the bound check rejected the delta.
		var availability models.ReservationAvailability
		err := s.db.WithContext(ctx).
			Where("wedding_id = ? AND resource_type = ?", weddingID, resource).
			First(&availability).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConfigured
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrCapacityExceeded
	}

	var availability models.ReservationAvailability
	err := s.db.WithContext(ctx).
		Where("wedding_id = ? AND resource_type = ?", weddingID, resource).
		First(&availability).Error
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

func (s *GormStore) FindReservation(ctx context.Context, weddingID uint, resource models.ResourceType, invitationID string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).
		Where("wedding_id = ? AND resource_type = ? AND invitation_id = ?", weddingID, resource, invitationID).
		First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *GormStore) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	err := s.db.WithContext(ctx).Create(reservation).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) ReplaceReservation(ctx context.Context, reservation *models.Reservation) error {
	return s.db.WithContext(ctx).Save(reservation).Error
}

func (s *GormStore) DeleteReservation(ctx context.Context, weddingID uint, resource models.ResourceType, invitationID string) error {
	// Hard delete: a soft-deleted row would keep occupying the unique
	// (wedding, resource, invitation) index.
	result := s.db.WithContext(ctx).Unscoped().
		Where("wedding_id = ? AND resource_type = ? AND invitation_id = ?", weddingID, resource, invitationID).
		Delete(&models.Reservation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := s.db.WithContext(ctx).First(&invitation, "id = ?", invitationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (s *GormStore) ListInvitations(ctx context.Context, weddingID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := s.db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("created_at").
		Find(&invitations).Error
	return invitations, err
}

func (s *GormStore) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	err := s.db.WithContext(ctx).Create(invitation).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) SaveInvitation(ctx context.Context, invitation *models.Invitation) error {
	return s.db.WithContext(ctx).Save(invitation).Error
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) FindWedding(ctx context.Context, id uint) (*models.Wedding, error) {
	var wedding models.Wedding
	err := s.db.WithContext(ctx).Preload("Users").First(&wedding, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wedding, nil
}

func (s *GormStore) ListWeddingsForUser(ctx context.Context, userID uint) ([]models.Wedding, error) {
	var weddings []models.Wedding
	err := s.db.WithContext(ctx).
		Joins("JOIN wedding_users ON wedding_users.wedding_id = weddings.id").
		Where("wedding_users.user_id = ?", userID).
		Find(&weddings).Error
	return weddings, err
}

func (s *GormStore) CreateWedding(ctx context.Context, wedding *models.Wedding) error {
	return s.db.WithContext(ctx).Create(wedding).Error
}

func (s *GormStore) SaveWedding(ctx context.Context, wedding *models.Wedding) error {
	return s.db.WithContext(ctx).Save(wedding).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
