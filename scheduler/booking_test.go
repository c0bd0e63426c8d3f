package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

func TestAvailableSlotsTodayExcludesPast(t *testing.T) {
	svc, clock := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")

	// At 09:10 everything from 09:30 onwards is still bookable.
	available, err := svc.AvailableSlots(staff.ID, clock.Now())
	require.NoError(t, err)
	require.Len(t, available, 16)
	assert.Equal(t, "09:30", available[0].TimeOfDay)
	assert.Equal(t, "17:00", available[len(available)-1].TimeOfDay)
	for _, slot := range available {
		assert.Equal(t, UnitsPerSlot, slot.FreeCount)
	}
}

func TestAvailableSlotsFutureDay(t *testing.T) {
	svc, clock := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")

	available, err := svc.AvailableSlots(staff.ID, clock.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, available, 21)
	assert.Equal(t, "07:00", available[0].TimeOfDay)
}

func TestAvailableSlotsWeekend(t *testing.T) {
	svc, _ := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")

	saturday := time.Date(2025, time.March, 8, 9, 0, 0, 0, time.UTC)
	_, err := svc.AvailableSlots(staff.ID, saturday)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAvailableSlotsStudentOtherDayForbidden(t *testing.T) {
	svc, clock := newTestService(t)
	student := createPerson(t, svc, models.CategoryStudent, "")

	_, err := svc.AvailableSlots(student.ID, clock.Now().AddDate(0, 0, 1))
	require.ErrorIs(t, err, ErrForbidden)
}

func TestBookClaimsLowestUnit(t *testing.T) {
	svc, clock := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")
	staff2 := createPerson(t, svc, models.CategoryStaff, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	slot := slotAt(t, svc, models.DateOf(clock.Now()), "10:00")

	first, err := svc.Book(staff.ID, slot.ID)
	require.NoError(t, err)
	require.NotNil(t, first.PersonID)
	assert.Equal(t, staff.ID, *first.PersonID)
	require.NotNil(t, first.ClaimedAt)
	assert.WithinDuration(t, clock.Now(), *first.ClaimedAt, time.Second)
	assert.Equal(t, slot.ID, first.ScheduleID)

	available, err := svc.AvailableSlots(staff.ID, clock.Now())
	require.NoError(t, err)
	for _, s := range available {
		if s.ScheduleID == slot.ID {
			assert.Equal(t, UnitsPerSlot-1, s.FreeCount)
		}
	}

	second, err := svc.Book(staff2.ID, slot.ID)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	// The slot is saturated now and drops out of the availability view.
	available, err = svc.AvailableSlots(staff.ID, clock.Now())
	require.NoError(t, err)
	for _, s := range available {
		assert.NotEqual(t, slot.ID, s.ScheduleID)
	}
}

func TestBookSlotFull(t *testing.T) {
	svc, clock := newTestService(t)
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	slot := slotAt(t, svc, models.DateOf(clock.Now()), "11:00")

	for i := 0; i < UnitsPerSlot; i++ {
		staff := createPerson(t, svc, models.CategoryStaff, "")
		_, err := svc.Book(staff.ID, slot.ID)
		require.NoError(t, err)
	}

	late := createPerson(t, svc, models.CategoryStaff, "")
	_, err = svc.Book(late.ID, slot.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestBookLastUnitExactlyOneWinner(t *testing.T) {
	svc, clock := newTestService(t)
	desk := createPerson(t, svc, models.CategoryClinicDesk, "")
	first := createPerson(t, svc, models.CategoryStaff, "")
	second := createPerson(t, svc, models.CategoryStaff, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	slot := slotAt(t, svc, models.DateOf(clock.Now()), "14:00")

	// Exactly one free unit left on the slot.
	_, err = svc.SetCapacity(desk.ID, []CapacityChange{{ScheduleID: slot.ID, Desired: 1}})
	require.NoError(t, err)

	winner, err := svc.Book(first.ID, slot.ID)
	require.NoError(t, err)
	_, err = svc.Book(second.ID, slot.ID)
	require.ErrorIs(t, err, ErrConflict)

	require.NotNil(t, winner.PersonID)
	assert.Equal(t, first.ID, *winner.PersonID)
	assert.Equal(t, 1, unitCount(t, svc, slot.ID))
}

func TestBookRetriesNextUnitWhenClaimLost(t *testing.T) {
	svc, clock := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")
	rival := createPerson(t, svc, models.CategoryStaff, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	slot := slotAt(t, svc, models.DateOf(clock.Now()), "13:00")

	var units []models.Appointment
	require.NoError(t, svc.db.Where("schedule_id = ?", slot.ID).Order("id ASC").Find(&units).Error)
	require.Len(t, units, UnitsPerSlot)

	// A concurrent booker takes the first listed unit between the free-unit
	// listing and the conditional update, so the first claim attempt affects
	// zero rows and the next candidate is tried.
	stolen := false
	err = svc.db.Callback().Update().Before("gorm:update").Register("claim_interloper", func(db *gorm.DB) {
		if stolen || db.Statement.Table != "appointments" {
			return
		}
		stolen = true
		db.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE appointments SET person_id = ? WHERE id = ?", rival.ID, units[0].ID)
	})
	require.NoError(t, err)
	defer svc.db.Callback().Update().Remove("claim_interloper")

	claimed, err := svc.Book(staff.ID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, units[1].ID, claimed.ID)
	require.NotNil(t, claimed.PersonID)
	assert.Equal(t, staff.ID, *claimed.PersonID)

	var lost models.Appointment
	require.NoError(t, svc.db.First(&lost, units[0].ID).Error)
	require.NotNil(t, lost.PersonID)
	assert.Equal(t, rival.ID, *lost.PersonID)
}

func TestBookDisabledSlot(t *testing.T) {
	svc, clock := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	slot := slotAt(t, svc, models.DateOf(clock.Now()), "12:00")
	require.NoError(t, svc.db.Model(slot).Update("status", models.ScheduleStatusDisabled).Error)

	available, err := svc.AvailableSlots(staff.ID, clock.Now())
	require.NoError(t, err)
	for _, s := range available {
		assert.NotEqual(t, slot.ID, s.ScheduleID)
	}

	_, err = svc.Book(staff.ID, slot.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestBookUnknownSlot(t *testing.T) {
	svc, _ := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")

	_, err := svc.Book(staff.ID, 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookInactivePersonForbidden(t *testing.T) {
	svc, clock := newTestService(t)
	staff := createPerson(t, svc, models.CategoryStaff, "")
	require.NoError(t, svc.db.Model(staff).Update("active", false).Error)
	slots, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)

	_, err = svc.Book(staff.ID, slots[0].ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestStudentDuplicateSameDayConflict(t *testing.T) {
	svc, clock := newTestService(t)
	student := createPerson(t, svc, models.CategoryStudent, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	today := models.DateOf(clock.Now())

	_, err = svc.Book(student.ID, slotAt(t, svc, today, "09:30").ID)
	require.NoError(t, err)

	_, err = svc.Book(student.ID, slotAt(t, svc, today, "10:00").ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestStudentBookOtherDayForbidden(t *testing.T) {
	svc, clock := newTestService(t)
	student := createPerson(t, svc, models.CategoryStudent, "")
	tomorrow := clock.Now().AddDate(0, 0, 1)
	slots, err := svc.EnsureDay(tomorrow, "system")
	require.NoError(t, err)

	_, err = svc.Book(student.ID, slots[0].ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestStudentBookAgainAfterCancel(t *testing.T) {
	svc, clock := newTestService(t)
	student := createPerson(t, svc, models.CategoryStudent, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	today := models.DateOf(clock.Now())

	first, err := svc.Book(student.ID, slotAt(t, svc, today, "09:30").ID)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(first.ID, student.ID))

	second, err := svc.Book(student.ID, slotAt(t, svc, today, "10:30").ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
