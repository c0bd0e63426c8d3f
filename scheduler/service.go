package scheduler

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// Service is the slot-and-appointment allocation engine. All mutating
// operations run inside a single transaction and claim capacity units with
// conditional updates, so concurrent callers can never double-book a unit.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// NewWithClock builds a service with an explicit clock. Tests use this to
// pin "today" and slot-time comparisons to a fixed moment.
func NewWithClock(db *gorm.DB, now func() time.Time) *Service {
	return &Service{db: db, now: now}
}

// person loads an active directory record or fails with NotFound/Forbidden.
func (s *Service) person(id uint) (*models.Person, error) {
	var p models.Person
	if err := s.db.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("person %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("person %d is deactivated: %w", id, ErrForbidden)
	}
	return &p, nil
}
