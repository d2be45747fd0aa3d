package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// InvitationType describes what kind of guest group an invitation covers.
type InvitationType string

const (
	InvitationSingle InvitationType = "single"
	InvitationCouple InvitationType = "couple"
	InvitationFamily InvitationType = "family"
)

func (t InvitationType) Valid() bool {
	return t == InvitationSingle || t == InvitationCouple || t == InvitationFamily
}

// Attendee is one person covered by an invitation. Attending is tri-state:
// nil means the guest has not answered yet.
type Attendee struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Attending *bool  `json:"attending"`
}

// Declined reports whether the attendee has explicitly answered "not
// attending". An unanswered attendee has not declined.
func (a Attendee) Declined() bool {
	return a.Attending != nil && !*a.Attending
}

// AttendeeList is stored as a JSON column.
type AttendeeList []Attendee

func (l AttendeeList) Value() (driver.Value, error) {
	if l == nil {
		l = AttendeeList{}
	}
	return json.Marshal(l)
}

func (l *AttendeeList) Scan(value interface{}) error {
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
		return fmt.Errorf("unsupported type %T for AttendeeList", value)
	}
	return json.Unmarshal(data, l)
}

// Invitation is the guest-group aggregate. The primary key is the opaque
// string handed to guests in their RSVP link.
type Invitation struct {
	ID           string         `json:"invitationId" gorm:"primaryKey;size:64"`
	WeddingID    uint           `json:"weddingId" gorm:"index;not null"`
	Type         InvitationType `json:"type" gorm:"size:16;not null"`
	MainGuest    Attendee       `json:"mainGuest" gorm:"embedded;embeddedPrefix:main_guest_"`
	HasCompanion bool           `json:"hasCompanion"`
	Companion    Attendee       `json:"companion" gorm:"embedded;embeddedPrefix:companion_"`
	HasChildren  bool           `json:"hasChildren"`
	Children     AttendeeList   `json:"children" gorm:"type:jsonb"`

	DietaryRestrictionsInGroup string `json:"dietaryRestrictionsInGroup"`
	SongRequest                string `json:"songRequest"`
	AdditionalNotes            string `json:"additionalNotes"`

	CreatedAt    time.Time  `json:"createdAt"`
	LastModified *time.Time `json:"lastModified"`
}

// BeforeSave stamps LastModified on every write.
func (inv *Invitation) BeforeSave(*gorm.DB) error {
	now := time.Now()
	inv.LastModified = &now
	return nil
}

// Attendees returns every person covered by the invitation: the main guest,
// the companion when one exists, and each child.
func (inv *Invitation) Attendees() []Attendee {
	attendees := []Attendee{inv.MainGuest}
	if inv.HasCompanion {
		attendees = append(attendees, inv.Companion)
	}
	if inv.HasChildren {
		attendees = append(attendees, inv.Children...)
	}
	return attendees
}

// EveryoneDeclined reports whether every attendee explicitly answered "not
// attending". Undecided attendees keep the invitation alive.
func (inv *Invitation) EveryoneDeclined() bool {
	for _, a := range inv.Attendees() {
		if !a.Declined() {
			return false
		}
	}
	return true
}
