package entity

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrInvalidWorkingHours = errors.New("working hours must be [\"HH:MM\", \"HH:MM\"] with start before end")

// Weekdays are the keys accepted in an Availability map.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WorkingHours is a daily interval, serialized as ["09:00", "17:00"].
type WorkingHours struct {
	Start string
	End   string
}

func (h WorkingHours) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{h.Start, h.End})
}

func (h *WorkingHours) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return ErrInvalidWorkingHours
	}
	h.Start, h.End = pair[0], pair[1]
	return nil
}

func (h WorkingHours) Validate() error {
	start, err := time.Parse("15:04", h.Start)
	if err != nil {
		return ErrInvalidWorkingHours
	}
	end, err := time.Parse("15:04", h.End)
	if err != nil {
		return ErrInvalidWorkingHours
	}
	if !start.Before(end) {
		return ErrInvalidWorkingHours
	}
	return nil
}

// Availability maps a lowercase weekday name to its working hours. It is
// advisory metadata; bookings are not validated against it.
type Availability map[string]WorkingHours

// ForDate returns the working hours of the weekday of date, if any.
func (a Availability) ForDate(date time.Time) (WorkingHours, bool) {
	hours, ok := a[strings.ToLower(date.Weekday().String())]
	return hours, ok
}

func (a Availability) Validate() error {
	for day, hours := range a {
		if !isWeekday(day) {
			return errors.New("unknown weekday: " + day)
		}
		if err := hours.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func isWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Doctor is the 1:1 extension of a User with role doctor
type Doctor struct {
	ID             int64                            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uuid.UUID                        `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialization string                           `gorm:"type:varchar(100);not null" json:"specialization"`
	LicenseNumber  string                           `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Bio            string                           `gorm:"type:text" json:"bio,omitempty"`
	Availability   datatypes.JSONType[Availability] `gorm:"type:jsonb" json:"availability"`
	CreatedAt      time.Time                        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) WeeklyAvailability() Availability {
	availability := d.Availability.Data()
	if availability == nil {
		return Availability{}
	}
	return availability
}

func (d *Doctor) SetAvailability(availability Availability) {
	d.Availability = datatypes.NewJSONType(availability)
}
