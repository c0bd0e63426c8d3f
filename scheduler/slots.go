package scheduler

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// Daily generation policy. The clinic window runs 07:00-17:00 inclusive at a
// 30-minute interval with 2 capacity units per slot; weekends get no slots.
const (
	DayStartHour = 7
	DayEndHour   = 17
	SlotInterval = 30 * time.Minute
	UnitsPerSlot = 2
)

// SlotCapacity is one row of the day-planning view.
type SlotCapacity struct {
	ScheduleID  uint   `json:"schedule_id"`
	TimeOfDay   string `json:"time_of_day"`
	ActiveCount int    `json:"active_count"`
}

// DayPlan is the capacity-management summary for one date.
type DayPlan struct {
	Date        string         `json:"date"`
	Weekend     bool           `json:"weekend"`
	Slots       []SlotCapacity `json:"slots"`
	TotalActive int            `json:"total_active"`
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// EnsureDay lazily generates the slots of a day the first time it is
// accessed. Repeat calls return the existing slots untouched. Slots and
// their capacity units are inserted in one transaction, so a crash can never
// leave a slot without units.
func (s *Service) EnsureDay(day time.Time, actor string) ([]models.Schedule, error) {
	if isWeekend(day) {
		return nil, fmt.Errorf("no availability on weekends: %w", ErrValidation)
	}
	date := models.DateOf(day)

	var existing []models.Schedule
	if err := s.db.Where("date = ?", date).Order("time_of_day ASC").Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction; a concurrent caller may have
		// generated the day already.
		var count int64
		if err := tx.Model(&models.Schedule{}).Where("date = ?", date).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		slots := buildDaySlots(day, actor)
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}

		units := make([]models.Appointment, 0, len(slots)*UnitsPerSlot)
		for _, slot := range slots {
			for i := 0; i < UnitsPerSlot; i++ {
				units = append(units, models.Appointment{
					ScheduleID: slot.ID,
					Status:     models.StatusCreated,
					CreatedBy:  actor,
				})
			}
		}
		return tx.Create(&units).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("date = ?", date).Order("time_of_day ASC").Find(&existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func buildDaySlots(day time.Time, actor string) []models.Schedule {
	date := models.DateOf(day)
	start := time.Date(day.Year(), day.Month(), day.Day(), DayStartHour, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), DayEndHour, 0, 0, 0, day.Location())

	var slots []models.Schedule
	for at := start; !at.After(end); at = at.Add(SlotInterval) {
		slots = append(slots, models.Schedule{
			Date:      date,
			TimeOfDay: models.TimeOf(at),
			Status:    models.ScheduleStatusActive,
			CreatedBy: actor,
		})
	}
	return slots
}

// DaySummary returns the day-planning view for a capacity manager: every
// slot of the date with its count of Created units, plus the day total.
// Weekends report an empty plan without generating anything.
func (s *Service) DaySummary(actorID uint, day time.Time) (*DayPlan, error) {
	actor, err := s.person(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Category.CanManageCapacity() {
		return nil, fmt.Errorf("category %s cannot manage capacity: %w", actor.Category, ErrForbidden)
	}

	plan := &DayPlan{Date: models.DateOf(day)}
	if isWeekend(day) {
		plan.Weekend = true
		return plan, nil
	}

	slots, err := s.EnsureDay(day, actor.Username)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		var count int64
		err := s.db.Model(&models.Appointment{}).
			Where("schedule_id = ? AND status = ?", slot.ID, models.StatusCreated).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		plan.Slots = append(plan.Slots, SlotCapacity{
			ScheduleID:  slot.ID,
			TimeOfDay:   slot.TimeOfDay,
			ActiveCount: int(count),
		})
		plan.TotalActive += int(count)
	}
	return plan, nil
}
