package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// Tuesday, well inside the clinic window.
var testMoment = time.Date(2025, time.March, 4, 9, 10, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database lives on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Person{},
		&models.Schedule{},
		&models.Appointment{},
	))

	clock := &testClock{now: testMoment}
	return NewWithClock(db, clock.Now), clock
}

var personSeq int

func createPerson(t *testing.T, svc *Service, category models.Category, phone string) *models.Person {
	t.Helper()
	personSeq++
	p := &models.Person{
		Cedula:   fmt.Sprintf("1-%04d-%04d", personSeq, personSeq),
		Name:     fmt.Sprintf("Person %d", personSeq),
		Username: fmt.Sprintf("user%d", personSeq),
		Password: "x",
		Category: category,
		Section:  "7-B",
		Phone:    phone,
		Active:   true,
	}
	require.NoError(t, svc.db.Create(p).Error)
	return p
}

func slotAt(t *testing.T, svc *Service, date, timeOfDay string) *models.Schedule {
	t.Helper()
	var slot models.Schedule
	require.NoError(t, svc.db.Where("date = ? AND time_of_day = ?", date, timeOfDay).First(&slot).Error)
	return &slot
}

func unitCount(t *testing.T, svc *Service, scheduleID uint) int {
	t.Helper()
	var n int64
	require.NoError(t, svc.db.Model(&models.Appointment{}).
		Where("schedule_id = ? AND status = ?", scheduleID, models.StatusCreated).
		Count(&n).Error)
	return int(n)
}
