package models

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	// StatusCreated covers both an unclaimed capacity unit and a claimed
	// appointment that has not been visited yet. A Created unit with a nil
	// PersonID is free.
	StatusCreated   AppointmentStatus = "created"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusArrived   AppointmentStatus = "arrived"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment is one capacity unit of a schedule slot and, once claimed,
// the appointment record itself (the original "Cita"). Claiming sets
// PersonID exactly once; it is never cleared again, cancellation only moves
// the status.
type Appointment struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	ScheduleID uint              `json:"schedule_id" gorm:"index;not null"`
	PersonID   *uint             `json:"person_id" gorm:"index"`
	Status     AppointmentStatus `json:"status" gorm:"size:16;default:'created';index"`

	ClaimedAt *time.Time `json:"claimed_at,omitempty"`

	ArrivalAt          *time.Time `json:"arrival_at,omitempty"`
	ArrivalNote        string     `json:"arrival_note,omitempty" gorm:"type:text"`
	ArrivalWitnessID   *uint      `json:"arrival_witness_id,omitempty"`
	DepartureAt        *time.Time `json:"departure_at,omitempty"`
	DepartureNote      string     `json:"departure_note,omitempty" gorm:"type:text"`
	DepartureWitnessID *uint      `json:"departure_witness_id,omitempty"`

	CreatedBy string    `json:"created_by" gorm:"size:64"`
	UpdatedBy string    `json:"updated_by,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Schedule         Schedule `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
	Person           *Person  `json:"person,omitempty" gorm:"foreignKey:PersonID"`
	ArrivalWitness   *Person  `json:"arrival_witness,omitempty" gorm:"foreignKey:ArrivalWitnessID"`
	DepartureWitness *Person  `json:"departure_witness,omitempty" gorm:"foreignKey:DepartureWitnessID"`
}

// Free reports whether the unit is still claimable.
func (a *Appointment) Free() bool {
	return a.Status == StatusCreated && a.PersonID == nil
}

// Terminal reports whether the appointment can no longer change state.
func (a *Appointment) Terminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// CheckTransition validates a status change against the lifecycle
// Created -> {Cancelled | Arrived -> Completed}.
func (a *Appointment) CheckTransition(next AppointmentStatus) error {
	switch a.Status {
	case StatusCreated:
		if next != StatusArrived && next != StatusCancelled {
			return fmt.Errorf("invalid transition from %s to %s", a.Status, next)
		}
	case StatusArrived:
		if next != StatusCompleted {
			return fmt.Errorf("invalid transition from %s to %s", a.Status, next)
		}
	case StatusCancelled, StatusCompleted:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}
	return nil
}
