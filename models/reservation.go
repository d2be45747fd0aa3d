package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// GuestDetail is passthrough per-person information on a reservation. It
// plays no part in capacity math.
type GuestDetail struct {
	Name string `json:"name"`
	Type string `json:"type"` // "adult" or "child"
}

// GuestDetailList is stored as a JSON column.
type GuestDetailList []GuestDetail

func (l GuestDetailList) Value() (driver.Value, error) {
	if l == nil {
		l = GuestDetailList{}
	}
	return json.Marshal(l)
}

func (l *GuestDetailList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for GuestDetailList", value)
	}
	return json.Unmarshal(data, l)
}

// Reservation is a guest group's claim on lodging or transportation spots.
// At most one exists per (wedding, resource type, invitation).
type Reservation struct {
	gorm.Model
	WeddingID    uint            `json:"weddingId" gorm:"uniqueIndex:idx_resource_invitation;not null"`
	ResourceType ResourceType    `json:"resourceType" gorm:"uniqueIndex:idx_resource_invitation;size:16;not null"`
	InvitationID string          `json:"invitationId" gorm:"uniqueIndex:idx_resource_invitation;size:64;not null"`
	Adults       int             `json:"adults"`
	Children     int             `json:"children"`
	Guests       GuestDetailList `json:"guests" gorm:"type:jsonb"`
}

// Spots is the number of capacity spots the reservation consumes.
func (r *Reservation) Spots() int {
	return r.Adults + r.Children
}
