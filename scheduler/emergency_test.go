package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

func TestBookEmergencyPrefersUpcomingSlot(t *testing.T) {
	svc, clock := newTestService(t)
	desk := createPerson(t, svc, models.CategoryClinicDesk, "")
	patient := createPerson(t, svc, models.CategoryStudent, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)

	claimed, err := svc.BookEmergency(desk.ID, patient.Cedula)
	require.NoError(t, err)

	// At 09:10 the first slot with a free unit is 09:30.
	want := slotAt(t, svc, models.DateOf(clock.Now()), "09:30")
	assert.Equal(t, want.ID, claimed.ScheduleID)
	require.NotNil(t, claimed.PersonID)
	assert.Equal(t, patient.ID, *claimed.PersonID)
}

func TestBookEmergencyFallsBackToEarlierSlot(t *testing.T) {
	svc, clock := newTestService(t)
	desk := createPerson(t, svc, models.CategoryClinicDesk, "")
	patient := createPerson(t, svc, models.CategoryStaff, "")
	slots, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)

	// Empty out every slot from 09:30 onwards; only the morning slots that
	// have already passed keep their units.
	var drain []CapacityChange
	for _, slot := range slots {
		if slot.TimeOfDay >= "09:30" {
			drain = append(drain, CapacityChange{ScheduleID: slot.ID, Desired: 0})
		}
	}
	_, err = svc.SetCapacity(desk.ID, drain)
	require.NoError(t, err)

	claimed, err := svc.BookEmergency(desk.ID, patient.Cedula)
	require.NoError(t, err)

	want := slotAt(t, svc, models.DateOf(clock.Now()), "07:00")
	assert.Equal(t, want.ID, claimed.ScheduleID)
}

func TestBookEmergencySynthesizesSlot(t *testing.T) {
	svc, clock := newTestService(t)
	desk := createPerson(t, svc, models.CategoryClinicDesk, "")
	patient := createPerson(t, svc, models.CategoryTeacher, "")

	// Nothing generated for today. The walk-in lands on a fresh slot at the
	// next 5-minute boundary with a single unit.
	claimed, err := svc.BookEmergency(desk.ID, patient.Cedula)
	require.NoError(t, err)

	slot := slotAt(t, svc, models.DateOf(clock.Now()), "09:15")
	assert.Equal(t, slot.ID, claimed.ScheduleID)
	assert.Equal(t, emergencyActor, slot.CreatedBy)
	assert.Equal(t, 1, unitCount(t, svc, slot.ID))
	require.NotNil(t, claimed.PersonID)
	assert.Equal(t, patient.ID, *claimed.PersonID)
}

func TestBookEmergencySynthesizedSlotReused(t *testing.T) {
	svc, clock := newTestService(t)
	desk := createPerson(t, svc, models.CategoryClinicDesk, "")
	first := createPerson(t, svc, models.CategoryStudent, "")
	second := createPerson(t, svc, models.CategoryStudent, "")

	a, err := svc.BookEmergency(desk.ID, first.Cedula)
	require.NoError(t, err)
	b, err := svc.BookEmergency(desk.ID, second.Cedula)
	require.NoError(t, err)

	// Both walk-ins align on 09:15; the second reuses the slot row instead
	// of colliding with the day/time uniqueness.
	assert.Equal(t, a.ScheduleID, b.ScheduleID)
	assert.Equal(t, 2, unitCount(t, svc, a.ScheduleID))

	var slots int64
	require.NoError(t, svc.db.Model(&models.Schedule{}).
		Where("date = ?", models.DateOf(clock.Now())).
		Count(&slots).Error)
	assert.Equal(t, int64(1), slots)
}

func TestBookEmergencySkipsDisabledSlots(t *testing.T) {
	svc, clock := newTestService(t)
	desk := createPerson(t, svc, models.CategoryClinicDesk, "")
	patient := createPerson(t, svc, models.CategoryStaff, "")
	_, err := svc.EnsureDay(clock.Now(), "system")
	require.NoError(t, err)
	require.NoError(t, svc.db.Model(&models.Schedule{}).
		Where("date = ?", models.DateOf(clock.Now())).
		Update("status", models.ScheduleStatusDisabled).Error)

	// With the whole day disabled the walk-in synthesizes a fresh slot.
	claimed, err := svc.BookEmergency(desk.ID, patient.Cedula)
	require.NoError(t, err)

	slot := slotAt(t, svc, models.DateOf(clock.Now()), "09:15")
	assert.Equal(t, slot.ID, claimed.ScheduleID)
	assert.Equal(t, models.ScheduleStatusActive, slot.Status)
}

func TestBookEmergencyForbiddenCategories(t *testing.T) {
	svc, _ := newTestService(t)
	patient := createPerson(t, svc, models.CategoryStudent, "")

	for _, category := range []models.Category{models.CategoryStudent, models.CategoryStaff} {
		operator := createPerson(t, svc, category, "")
		_, err := svc.BookEmergency(operator.ID, patient.Cedula)
		require.ErrorIs(t, err, ErrForbidden)
	}
}

func TestBookEmergencyUnknownCedula(t *testing.T) {
	svc, _ := newTestService(t)
	teacher := createPerson(t, svc, models.CategoryTeacher, "")

	_, err := svc.BookEmergency(teacher.ID, "9-9999-9999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNextFiveMinutes(t *testing.T) {
	base := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		minute, second int
		want           string
	}{
		{12, 0, "09:15"},
		{14, 59, "09:15"},
		{10, 0, "09:15"},
		{0, 0, "09:05"},
		{55, 1, "10:00"},
	}
	for _, tc := range cases {
		at := base.Add(time.Duration(tc.minute)*time.Minute + time.Duration(tc.second)*time.Second)
		assert.Equal(t, tc.want, models.TimeOf(nextFiveMinutes(at)), "from %02d:%02d", tc.minute, tc.second)
	}
}
