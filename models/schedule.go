package models

import (
	"time"
)

type ScheduleStatus string

const (
	ScheduleStatusActive   ScheduleStatus = "active"
	ScheduleStatusDisabled ScheduleStatus = "disabled"
)

// Schedule is one schedulable time point of a day (the original "Horario").
// Date is "2006-01-02" and TimeOfDay "15:04"; both zero-padded so string
// comparison orders chronologically. The (Date, TimeOfDay) pair is unique.
type Schedule struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Date      string         `json:"date" gorm:"size:10;uniqueIndex:idx_schedule_day_time;index"`
	TimeOfDay string         `json:"time_of_day" gorm:"size:5;uniqueIndex:idx_schedule_day_time"`
	Status    ScheduleStatus `json:"status" gorm:"size:16;default:'active'"`
	CreatedBy string         `json:"created_by" gorm:"size:64"`
	UpdatedBy string         `json:"updated_by,omitempty" gorm:"size:64"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:ScheduleID"`
}

// DateOf formats t as a schedule date key.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// TimeOf formats t as a schedule time-of-day key.
func TimeOf(t time.Time) string {
	return t.Format("15:04")
}
