package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/milixmatux/Proyecto-de-enfermeria/db"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders checks for claimed appointments and sends reminders
func sendAppointmentReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	// Claimed, not-yet-visited appointments whose slot falls in the window.
	// The window never crosses midnight far enough to span two dates in a
	// way that matters: slots only exist between 07:00 and 17:00.
	var appointments []models.Appointment
	err := db.DB.Preload("Person").Preload("Schedule").
		Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
		Where("appointments.status = ? AND appointments.person_id IS NOT NULL", models.StatusCreated).
		Where("schedules.date = ?", models.DateOf(startWindow)).
		Where("schedules.time_of_day BETWEEN ? AND ?", models.TimeOf(startWindow), models.TimeOf(endWindow)).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if appointment.Person == nil || appointment.Person.Email == "" {
			continue
		}
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Person.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := "Reminder: Upcoming Infirmary Appointment"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your infirmary appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you cannot attend, cancel the appointment as soon as possible.</p>
		<p>Best regards,</p>
		<p>The Infirmary</p>
	`, appointment.Person.Name, appointment.Schedule.Date, appointment.Schedule.TimeOfDay)

	return utils.SendEmail(appointment.Person.Email, subject, body)
}
