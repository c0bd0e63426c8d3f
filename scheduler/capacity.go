package scheduler

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// CapacityChange is one slot resize request within a batch.
type CapacityChange struct {
	ScheduleID uint `json:"schedule_id"`
	Desired    int  `json:"desired"`
}

// SetCapacity resizes the Created-unit count of every slot in the batch
// inside a single transaction: either all adjustments commit or none do.
// Shrinking only ever removes unclaimed units; if a slot does not have
// enough unclaimed units to reach the desired count the whole batch fails
// with Conflict, so a claimed appointment can never be dropped silently.
// Returns the recomputed Created-unit total for the affected day.
func (s *Service) SetCapacity(actorID uint, changes []CapacityChange) (int, error) {
	actor, err := s.person(actorID)
	if err != nil {
		return 0, err
	}
	if !actor.Category.CanManageCapacity() {
		return 0, fmt.Errorf("category %s cannot manage capacity: %w", actor.Category, ErrForbidden)
	}
	if len(changes) == 0 {
		return 0, fmt.Errorf("empty capacity batch: %w", ErrValidation)
	}
	for _, change := range changes {
		if change.Desired < 0 {
			return 0, fmt.Errorf("desired count must not be negative: %w", ErrValidation)
		}
	}

	var dayTotal int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var date string

		for _, change := range changes {
			var slot models.Schedule
			if err := tx.First(&slot, change.ScheduleID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fmt.Errorf("slot %d: %w", change.ScheduleID, ErrNotFound)
				}
				return err
			}
			if date == "" {
				date = slot.Date
			}

			var units []models.Appointment
			err := tx.Where("schedule_id = ? AND status = ?", slot.ID, models.StatusCreated).
				Order("id ASC").
				Find(&units).Error
			if err != nil {
				return err
			}

			current := len(units)
			switch {
			case change.Desired > current:
				add := make([]models.Appointment, 0, change.Desired-current)
				for i := current; i < change.Desired; i++ {
					add = append(add, models.Appointment{
						ScheduleID: slot.ID,
						Status:     models.StatusCreated,
						CreatedBy:  actor.Username,
					})
				}
				if err := tx.Create(&add).Error; err != nil {
					return err
				}
			case change.Desired < current:
				var unclaimed []uint
				for _, unit := range units {
					if unit.PersonID == nil {
						unclaimed = append(unclaimed, unit.ID)
					}
				}
				remove := current - change.Desired
				if len(unclaimed) < remove {
					return fmt.Errorf("slot %s has %d claimed appointments, cannot shrink to %d: %w",
						slot.TimeOfDay, current-len(unclaimed), change.Desired, ErrConflict)
				}
				if err := tx.Delete(&models.Appointment{}, unclaimed[:remove]).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&models.Appointment{}).
			Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
			Where("schedules.date = ? AND appointments.status = ?", date, models.StatusCreated).
			Count(&dayTotal).Error
	})
	if err != nil {
		return 0, err
	}
	return int(dayTotal), nil
}
