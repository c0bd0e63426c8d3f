package scheduler

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// emergencyActor is the attribution recorded on synthesized walk-in slots.
const emergencyActor = "emergency"

// BookEmergency inserts a walk-in appointment for the person identified by
// cedula, bypassing the normal booking windows. Slot search order: first
// slot today at or after the current time with a free unit, then any slot
// today with a free unit, and as a last resort a fresh slot synthesized at
// the next 5-minute-aligned future time with exactly one unit. The claim
// uses the same at-most-once primitive as regular booking.
func (s *Service) BookEmergency(operatorID uint, cedula string) (*models.Appointment, error) {
	operator, err := s.person(operatorID)
	if err != nil {
		return nil, err
	}
	if !operator.Category.CanBookEmergencyForOthers() {
		return nil, fmt.Errorf("category %s cannot create emergency appointments: %w", operator.Category, ErrForbidden)
	}

	var target models.Person
	if err := s.db.Where("cedula = ?", cedula).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("person with cedula %s: %w", cedula, ErrNotFound)
		}
		return nil, err
	}

	now := s.now()
	today := models.DateOf(now)

	candidates, err := s.freeSlotIDs(today, models.TimeOf(now))
	if err != nil {
		return nil, err
	}
	later, err := s.freeSlotIDs(today, "")
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, later...)

	for _, scheduleID := range candidates {
		var claimed *models.Appointment
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			claimed, txErr = s.claimUnit(tx, scheduleID, target.ID, operator.Username)
			return txErr
		})
		if err == nil {
			return claimed, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		// Lost the race for this slot, try the next one.
	}

	return s.synthesizeEmergency(now, &target, operator.Username)
}

// freeSlotIDs lists the date's active slots holding at least one free unit, ascending
// by time. A non-empty fromTime keeps only slots at or after that time.
func (s *Service) freeSlotIDs(date, fromTime string) ([]uint, error) {
	q := s.db.Model(&models.Schedule{}).
		Select("schedules.id").
		Joins("JOIN appointments ON appointments.schedule_id = schedules.id").
		Where("schedules.date = ? AND schedules.status = ? AND appointments.status = ? AND appointments.person_id IS NULL",
			date, models.ScheduleStatusActive, models.StatusCreated).
		Group("schedules.id, schedules.time_of_day").
		Order("schedules.time_of_day ASC")
	if fromTime != "" {
		q = q.Where("schedules.time_of_day >= ?", fromTime)
	} else {
		q = q.Where("schedules.time_of_day < ?", models.TimeOf(s.now()))
	}

	var ids []uint
	if err := q.Pluck("schedules.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// synthesizeEmergency creates a brand-new slot at the next 5-minute boundary
// with one fresh unit, reselects it from storage and claims it.
func (s *Service) synthesizeEmergency(now time.Time, target *models.Person, operator string) (*models.Appointment, error) {
	at := nextFiveMinutes(now)
	date := models.DateOf(at)
	timeOfDay := models.TimeOf(at)

	var claimed *models.Appointment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The aligned minute may already hold a fully-claimed slot; reuse it
		// instead of violating the (date, time) uniqueness.
		var slot models.Schedule
		err := tx.Where("date = ? AND time_of_day = ?", date, timeOfDay).First(&slot).Error
		if err == gorm.ErrRecordNotFound {
			slot = models.Schedule{
				Date:      date,
				TimeOfDay: timeOfDay,
				Status:    models.ScheduleStatusActive,
				CreatedBy: emergencyActor,
			}
			err = tx.Create(&slot).Error
		}
		if err != nil {
			return err
		}

		unit := models.Appointment{
			ScheduleID: slot.ID,
			Status:     models.StatusCreated,
			CreatedBy:  emergencyActor,
		}
		if err := tx.Create(&unit).Error; err != nil {
			return err
		}

		// Reselect fresh from storage before claiming.
		var fresh models.Schedule
		if err := tx.First(&fresh, slot.ID).Error; err != nil {
			return err
		}

		var txErr error
		claimed, txErr = s.claimUnit(tx, fresh.ID, target.ID, operator)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// nextFiveMinutes rounds t up to the next 5-minute boundary, always moving
// strictly into the future: an exact boundary advances a full step so the
// synthesized slot never collides with "now".
func nextFiveMinutes(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	rem := t.Minute() % 5
	if rem == 0 {
		return t.Add(5 * time.Minute)
	}
	return t.Add(time.Duration(5-rem) * time.Minute)
}
