package models

// ReservationAvailability is the capacity ledger for one resource type of
// one wedding. TakenSpots only ever moves through the conditional update in
// the storage layer, which keeps it inside [0, TotalSpots].
type ReservationAvailability struct {
	ID           uint         `json:"-" gorm:"primaryKey"`
	WeddingID    uint         `json:"weddingId" gorm:"uniqueIndex:idx_wedding_resource;not null"`
	ResourceType ResourceType `json:"resourceType" gorm:"uniqueIndex:idx_wedding_resource;size:16;not null"`
	TotalSpots   int          `json:"total_spots"`
	TakenSpots   int          `json:"taken_spots"`
}

// AvailableSpots is the remaining capacity.
func (a *ReservationAvailability) AvailableSpots() int {
	return a.TotalSpots - a.TakenSpots
}
