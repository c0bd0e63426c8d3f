package scheduler

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// SlotAvailability is one bookable slot of a day with its free-unit count.
type SlotAvailability struct {
	ScheduleID uint   `json:"schedule_id"`
	TimeOfDay  string `json:"time_of_day"`
	FreeCount  int    `json:"free_count"`
}

// AvailableSlots lists the active slots of a date that still have free units, in
// ascending time order. Students may only look at the current date. When the
// date is today, slots whose time has already passed are excluded.
func (s *Service) AvailableSlots(personID uint, day time.Time) ([]SlotAvailability, error) {
	person, err := s.person(personID)
	if err != nil {
		return nil, err
	}
	if !person.Category.CanBookForSelf() {
		return nil, fmt.Errorf("category %s cannot book appointments: %w", person.Category, ErrForbidden)
	}
	if isWeekend(day) {
		return nil, fmt.Errorf("no availability on weekends: %w", ErrValidation)
	}

	now := s.now()
	today := models.DateOf(now)
	date := models.DateOf(day)
	if person.Category == models.CategoryStudent && date != today {
		return nil, fmt.Errorf("students may only book for the current day: %w", ErrForbidden)
	}

	if _, err := s.EnsureDay(day, "system"); err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Appointment{}).
		Select("appointments.schedule_id AS schedule_id, schedules.time_of_day AS time_of_day, COUNT(*) AS free_count").
		Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
		Where("schedules.date = ? AND schedules.status = ? AND appointments.status = ? AND appointments.person_id IS NULL",
			date, models.ScheduleStatusActive, models.StatusCreated).
		Group("appointments.schedule_id, schedules.time_of_day").
		Order("schedules.time_of_day ASC")
	if date == today {
		q = q.Where("schedules.time_of_day >= ?", models.TimeOf(now))
	}

	var available []SlotAvailability
	if err := q.Scan(&available).Error; err != nil {
		return nil, err
	}
	return available, nil
}

// Book claims one free capacity unit of the slot for the person. Category
// rules: students book today only and hold at most one pending appointment
// per day. The claim itself is a conditional update checked by affected-row
// count, so two concurrent bookers can never take the same unit.
func (s *Service) Book(personID, scheduleID uint) (*models.Appointment, error) {
	person, err := s.person(personID)
	if err != nil {
		return nil, err
	}
	if !person.Category.CanBookForSelf() {
		return nil, fmt.Errorf("category %s cannot book appointments: %w", person.Category, ErrForbidden)
	}

	var claimed *models.Appointment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var slot models.Schedule
		if err := tx.First(&slot, scheduleID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("slot %d: %w", scheduleID, ErrNotFound)
			}
			return err
		}
		if slot.Status != models.ScheduleStatusActive {
			return fmt.Errorf("slot %s is disabled: %w", slot.TimeOfDay, ErrConflict)
		}

		if person.Category == models.CategoryStudent {
			today := models.DateOf(s.now())
			if slot.Date != today {
				return fmt.Errorf("students may only book for the current day: %w", ErrForbidden)
			}
			var pending int64
			err := tx.Model(&models.Appointment{}).
				Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
				Where("appointments.person_id = ? AND appointments.status = ? AND schedules.date = ?",
					person.ID, models.StatusCreated, slot.Date).
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending > 0 {
				return fmt.Errorf("duplicate booking for %s: %w", slot.Date, ErrConflict)
			}
		}

		claimed, err = s.claimUnit(tx, slot.ID, person.ID, person.Username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// claimUnit takes the first free unit of the slot in creation order. Each
// candidate is claimed with "UPDATE ... WHERE person_id IS NULL"; a zero
// affected-row count means a concurrent claim won, and the next candidate is
// tried. With no claimable unit left the slot is full.
func (s *Service) claimUnit(tx *gorm.DB, scheduleID, personID uint, actor string) (*models.Appointment, error) {
	var units []models.Appointment
	err := tx.Where("schedule_id = ? AND status = ? AND person_id IS NULL", scheduleID, models.StatusCreated).
		Order("id ASC").
		Find(&units).Error
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, unit := range units {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND person_id IS NULL AND status = ?", unit.ID, models.StatusCreated).
			Updates(map[string]interface{}{
				"person_id":  personID,
				"claimed_at": now,
				"updated_by": actor,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			var claimed models.Appointment
			if err := tx.Preload("Schedule").First(&claimed, unit.ID).Error; err != nil {
				return nil, err
			}
			return &claimed, nil
		}
	}
	return nil, fmt.Errorf("no capacity left in slot %d: %w", scheduleID, ErrConflict)
}
