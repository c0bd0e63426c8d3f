package scheduler

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// Receipt is the read-only projection handed to the receipt renderer. It
// never exposes mutable state and building it never touches the appointment.
type Receipt struct {
	AppointmentID uint   `json:"appointment_id"`
	PersonName    string `json:"person_name"`
	Section       string `json:"section"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	Notes         string `json:"notes"`
	Final         bool   `json:"final"`
}

func buildReceipt(appt *models.Appointment) Receipt {
	r := Receipt{
		AppointmentID: appt.ID,
		Date:          appt.Schedule.Date,
		Time:          appt.Schedule.TimeOfDay,
		ArrivalTime:   "-",
		DepartureTime: "-",
		Notes:         "-",
		Final:         appt.Terminal(),
	}
	if appt.Person != nil {
		r.PersonName = appt.Person.Name
		r.Section = appt.Person.Section
	}
	if appt.ArrivalAt != nil {
		r.ArrivalTime = models.TimeOf(*appt.ArrivalAt)
	}
	if appt.DepartureAt != nil {
		r.DepartureTime = models.TimeOf(*appt.DepartureAt)
	}
	if strings.TrimSpace(appt.DepartureNote) != "" {
		r.Notes = appt.DepartureNote
	} else if strings.TrimSpace(appt.ArrivalNote) != "" {
		r.Notes = appt.ArrivalNote
	}
	return r
}

// Receipt projects one claimed appointment for the receipt renderer.
// Students, staff and teachers only ever read their own; another person's
// appointment reads as absent, the same way the range scoping hides it.
func (s *Service) Receipt(requesterID, appointmentID uint) (*Receipt, error) {
	requester, err := s.person(requesterID)
	if err != nil {
		return nil, err
	}

	var appt models.Appointment
	err = s.db.Preload("Person").Preload("Schedule").First(&appt, appointmentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("appointment %d: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}
	if appt.PersonID == nil {
		return nil, fmt.Errorf("appointment %d is not claimed: %w", appointmentID, ErrNotFound)
	}

	switch requester.Category {
	case models.CategoryStudent, models.CategoryStaff, models.CategoryTeacher:
		if *appt.PersonID != requester.ID {
			return nil, fmt.Errorf("appointment %d: %w", appointmentID, ErrNotFound)
		}
	}

	r := buildReceipt(&appt)
	return &r, nil
}

// ReceiptsRange projects the claimed appointments of a date range.
// Students, staff and teachers only ever see their own; clinic desk and
// administrative requesters may narrow by a name/cedula fragment instead.
func (s *Service) ReceiptsRange(requesterID uint, from, to time.Time, filter string) ([]Receipt, error) {
	requester, err := s.person(requesterID)
	if err != nil {
		return nil, err
	}

	q := s.db.Preload("Person").Preload("Schedule").
		Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
		Where("appointments.person_id IS NOT NULL").
		Where("schedules.date >= ? AND schedules.date <= ?", models.DateOf(from), models.DateOf(to)).
		Order("schedules.date DESC, schedules.time_of_day DESC")

	switch requester.Category {
	case models.CategoryStudent, models.CategoryStaff, models.CategoryTeacher:
		q = q.Where("appointments.person_id = ?", requester.ID)
	default:
		if fragment := strings.TrimSpace(filter); fragment != "" {
			pattern := "%" + strings.ToLower(fragment) + "%"
			q = q.Joins("JOIN people ON people.id = appointments.person_id").
				Where("LOWER(people.name) LIKE ? OR LOWER(people.cedula) LIKE ?", pattern, pattern)
		}
	}

	var appts []models.Appointment
	if err := q.Find(&appts).Error; err != nil {
		return nil, err
	}

	receipts := make([]Receipt, 0, len(appts))
	for i := range appts {
		receipts = append(receipts, buildReceipt(&appts[i]))
	}
	return receipts, nil
}
