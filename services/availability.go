package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/storage"
)

const availabilityCacheTTL = time.Minute

// Availability is the read-only capacity projection. Reads go through an
// optional redis cache keyed by a per-ledger version that every committed
// adjustment bumps: a reader that loaded the row before an adjustment can
// only write its snapshot back under the superseded version, so it never
// masks the committed value for later readers.
type Availability struct {
	store storage.Store
	cache *redis.Client
	log   zerolog.Logger
}

// NewAvailability builds the query service. cache may be nil.
func NewAvailability(store storage.Store, cache *redis.Client, log zerolog.Logger) *Availability {
	return &Availability{store: store, cache: cache, log: log}
}

func (s *Availability) versionKey(weddingID uint, resource models.ResourceType) string {
	return fmt.Sprintf("availability:ver:%d:%s", weddingID, resource)
}

func (s *Availability) cacheKey(weddingID uint, resource models.ResourceType, version int64) string {
	return fmt.Sprintf("availability:%d:%s:v%d", weddingID, resource, version)
}

// cacheVersion reads the ledger's current cache version. A missing key or
// an unreachable redis counts as version 0.
func (s *Availability) cacheVersion(ctx context.Context, weddingID uint, resource models.ResourceType) int64 {
	version, err := s.cache.Get(ctx, s.versionKey(weddingID, resource)).Int64()
	if err != nil {
		return 0
	}
	return version
}

// Get returns the current (total, taken) ledger for a resource type.
func (s *Availability) Get(ctx context.Context, weddingID uint, resource models.ResourceType) (*models.ReservationAvailability, error) {
	var key string
	if s.cache != nil {
		// The version must be read before the store, so a concurrent
		// invalidation moves later readers past whatever this one caches.
		key = s.cacheKey(weddingID, resource, s.cacheVersion(ctx, weddingID, resource))
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var availability models.ReservationAvailability
			if json.Unmarshal(data, &availability) == nil {
				return &availability, nil
			}
		}
	}

	availability, err := s.store.GetAvailability(ctx, weddingID, resource)
	if err != nil {
		return nil, classify(err, resource, "")
	}

	if s.cache != nil {
		if data, err := json.Marshal(availability); err == nil {
			if err := s.cache.Set(ctx, key, data, availabilityCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("availability cache write failed")
			}
		}
	}
	return availability, nil
}

// Invalidate bumps the ledger's cache version after a committed adjustment.
// Entries under older versions are unreachable and expire by TTL.
func (s *Availability) Invalidate(ctx context.Context, weddingID uint, resource models.ResourceType) {
	if s.cache == nil {
		return
	}
	key := s.versionKey(weddingID, resource)
	if err := s.cache.Incr(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("availability cache invalidation failed")
	}
}

// Configure enables a resource type for a wedding or resizes its capacity.
// Shrinking below the spots already taken is rejected.
func (s *Availability) Configure(ctx context.Context, weddingID uint, resource models.ResourceType, totalSpots int) (*models.ReservationAvailability, error) {
	if totalSpots < 0 {
		return nil, newError(CodeInternal, resource, "", "total spots must not be negative")
	}
	availability := &models.ReservationAvailability{
		WeddingID:    weddingID,
		ResourceType: resource,
		TotalSpots:   totalSpots,
	}
	err := s.store.CreateAvailability(ctx, availability)
	if errors.Is(err, storage.ErrDuplicate) {
		availability, err = s.store.SetAvailabilityTotal(ctx, weddingID, resource, totalSpots)
	}
	if err != nil {
		return nil, classify(err, resource, "")
	}
	s.Invalidate(ctx, weddingID, resource)
	return availability, nil
}
