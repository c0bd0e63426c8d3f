package models

import (
	"time"
)

// Category is the fixed role classification of a person. The original
// system compared raw strings per controller; keeping the set closed here
// lets every permission check go through the capability methods below.
type Category string

const (
	CategoryStudent    Category = "student"
	CategoryStaff      Category = "staff"
	CategoryTeacher    Category = "teacher"
	CategoryClinicDesk Category = "clinic_desk"
	CategoryAdmin      Category = "administrative"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStudent, CategoryStaff, CategoryTeacher, CategoryClinicDesk, CategoryAdmin:
		return true
	}
	return false
}

// CanBookForSelf reports whether the category may reserve its own
// appointments. Students are further restricted to the current day by the
// scheduler.
func (c Category) CanBookForSelf() bool {
	return c.Valid()
}

// CanBookEmergencyForOthers reports whether the category may insert a
// walk-in appointment on behalf of another person.
func (c Category) CanBookEmergencyForOthers() bool {
	return c == CategoryTeacher || c == CategoryClinicDesk || c == CategoryAdmin
}

// CanCancelOwn reports whether the category may cancel its own pending
// appointments.
func (c Category) CanCancelOwn() bool {
	return c == CategoryStudent || c == CategoryStaff
}

// CanManageCapacity reports whether the category may resize slot capacity.
func (c Category) CanManageCapacity() bool {
	return c == CategoryClinicDesk || c == CategoryAdmin
}

// CanRecordVisits reports whether the category may register arrivals and
// departures at the clinic desk.
func (c Category) CanRecordVisits() bool {
	return c == CategoryClinicDesk || c == CategoryAdmin
}

// CanManagePersons reports whether the category may create, edit or
// deactivate directory records.
func (c Category) CanManagePersons() bool {
	return c == CategoryAdmin
}

// Person is a directory record. People are never hard-deleted because
// historical appointments reference them; deactivation flips Active.
type Person struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Cedula    string    `json:"cedula" gorm:"uniqueIndex;size:32"`
	Name      string    `json:"name" gorm:"size:255"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:64"`
	Password  string    `json:"password,omitempty"`
	Category  Category  `json:"category" gorm:"size:32;index"`
	Section   string    `json:"section,omitempty" gorm:"size:64"`
	Phone     string    `json:"phone,omitempty" gorm:"size:32"`
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	Active    bool      `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PersonID"`
}
