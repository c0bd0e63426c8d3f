package scheduler

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"

	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// autoArrivalNote marks arrivals backfilled by a departure registration.
const autoArrivalNote = "(auto)"

// VisitNotification carries everything a caller needs to notify the witness
// of a student visit. Composing and sending the message is not part of the
// core; the wa.me link mirrors what the clinic desk used historically.
type VisitNotification struct {
	WitnessName  string `json:"witness_name"`
	WitnessPhone string `json:"witness_phone"`
	Message      string `json:"message"`
	URL          string `json:"url"`
}

// VisitResult is the outcome of an arrival or departure registration.
// AlreadyRecorded repeats are successes carrying the original timestamp.
type VisitResult struct {
	Time            time.Time          `json:"time"`
	AlreadyRecorded bool               `json:"already_recorded"`
	Notify          *VisitNotification `json:"notify,omitempty"`
}

func (s *Service) loadVisit(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.Preload("Person").Preload("Schedule").First(&appt, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if appt.PersonID == nil || appt.Person == nil {
		return nil, fmt.Errorf("appointment %d is not claimed: %w", id, ErrValidation)
	}
	return &appt, nil
}

// witnessFor enforces the student witness rule: a student's visit must be
// witnessed by an active teacher with a contactable phone number. Other
// categories need no witness and nil is returned for them.
func (s *Service) witnessFor(patient *models.Person, witnessID uint) (*models.Person, error) {
	if patient.Category != models.CategoryStudent {
		return nil, nil
	}
	if witnessID == 0 {
		return nil, fmt.Errorf("invalid witness: a teacher is required for student visits: %w", ErrValidation)
	}
	var witness models.Person
	if err := s.db.First(&witness, witnessID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid witness: teacher %d not found: %w", witnessID, ErrValidation)
		}
		return nil, err
	}
	if witness.Category != models.CategoryTeacher || !witness.Active || strings.TrimSpace(witness.Phone) == "" {
		return nil, fmt.Errorf("invalid witness: an active teacher with a phone on file is required: %w", ErrValidation)
	}
	return &witness, nil
}

func notification(witness *models.Person, text string) *VisitNotification {
	if witness == nil {
		return nil
	}
	phone := utils.NormalizePhone(witness.Phone)
	return &VisitNotification{
		WitnessName:  witness.Name,
		WitnessPhone: phone,
		Message:      text,
		URL:          utils.WhatsAppURL(phone, text),
	}
}

// RecordArrival stamps the arrival of a claimed appointment and moves it to
// Arrived. Calling it again returns the original timestamp with the
// AlreadyRecorded flag instead of failing.
func (s *Service) RecordArrival(appointmentID uint, note string, witnessID uint, actor string) (*VisitResult, error) {
	appt, err := s.loadVisit(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.ArrivalAt != nil {
		return &VisitResult{Time: *appt.ArrivalAt, AlreadyRecorded: true}, nil
	}

	witness, err := s.witnessFor(appt.Person, witnessID)
	if err != nil {
		return nil, err
	}
	if err := appt.CheckTransition(models.StatusArrived); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrConflict)
	}

	now := s.now()
	updates := map[string]interface{}{
		"arrival_at":   now,
		"arrival_note": note,
		"status":       models.StatusArrived,
		"updated_by":   actor,
	}
	if witness != nil {
		updates["arrival_witness_id"] = witness.ID
	}
	if err := s.db.Model(appt).Updates(updates).Error; err != nil {
		return nil, err
	}

	text := fmt.Sprintf("%s arrived at the infirmary at %s. Observations: %s",
		appt.Person.Name, models.TimeOf(now), orNone(note))
	return &VisitResult{Time: now, Notify: notification(witness, text)}, nil
}

// RecordDeparture stamps the departure and completes the appointment. The
// reason note is mandatory. A missing arrival is backfilled at the current
// time with a placeholder note before the departure is applied.
func (s *Service) RecordDeparture(appointmentID uint, note string, witnessID uint, actor string) (*VisitResult, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("reason required: %w", ErrValidation)
	}

	appt, err := s.loadVisit(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.DepartureAt != nil {
		return &VisitResult{Time: *appt.DepartureAt, AlreadyRecorded: true}, nil
	}

	witness, err := s.witnessFor(appt.Person, witnessID)
	if err != nil {
		return nil, err
	}
	if appt.Status == models.StatusCancelled {
		return nil, fmt.Errorf("appointment %d is cancelled: %w", appointmentID, ErrConflict)
	}

	now := s.now()
	updates := map[string]interface{}{
		"departure_at":   now,
		"departure_note": note,
		"status":         models.StatusCompleted,
		"updated_by":     actor,
	}
	if appt.ArrivalAt == nil {
		updates["arrival_at"] = now
		updates["arrival_note"] = autoArrivalNote
	}
	if witness != nil {
		updates["departure_witness_id"] = witness.ID
	}
	if err := s.db.Model(appt).Updates(updates).Error; err != nil {
		return nil, err
	}

	text := fmt.Sprintf("%s left the infirmary at %s. Reason: %s",
		appt.Person.Name, models.TimeOf(now), note)
	return &VisitResult{Time: now, Notify: notification(witness, text)}, nil
}

// Cancel moves a pending appointment to Cancelled. Only the owning person
// may cancel, only on the appointment's own day, and only while it is still
// Created. The unit stays consumed: the person reference is never cleared.
func (s *Service) Cancel(appointmentID, requesterID uint) error {
	requester, err := s.person(requesterID)
	if err != nil {
		return err
	}

	appt, err := s.loadVisit(appointmentID)
	if err != nil {
		return err
	}
	if *appt.PersonID != requester.ID {
		return fmt.Errorf("appointment %d belongs to another person: %w", appointmentID, ErrForbidden)
	}
	if !requester.Category.CanCancelOwn() {
		return fmt.Errorf("category %s cannot cancel appointments: %w", requester.Category, ErrForbidden)
	}
	if appt.Status != models.StatusCreated || appt.Schedule.Date != models.DateOf(s.now()) {
		return fmt.Errorf("not cancellable: %w", ErrConflict)
	}

	return s.db.Model(appt).Updates(map[string]interface{}{
		"status":     models.StatusCancelled,
		"updated_by": requester.Username,
	}).Error
}

func orNone(note string) string {
	if strings.TrimSpace(note) == "" {
		return "none"
	}
	return note
}
