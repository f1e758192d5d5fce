package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/RitamPal26/student-progress-site/models"
)

// ReminderSender dispatches an inactivity reminder to one contact address.
// Implemented by EmailService (email address) and SMSService (phone number).
type ReminderSender interface {
	SendReminder(ctx context.Context, address, name string) error
}

// StudentNotifier fans a reminder out to the channels configured for the
// deployment. Email is the primary channel: its outcome decides whether the
// reminder counts as sent. SMS is best-effort on top.
type StudentNotifier struct {
	email  ReminderSender
	sms    ReminderSender
	logger *slog.Logger
}

func NewStudentNotifier(email, sms ReminderSender, logger *slog.Logger) *StudentNotifier {
	return &StudentNotifier{email: email, sms: sms, logger: logger}
}

// Notify sends the reminder to the student. The returned error reflects the
// primary (email) channel only.
func (n *StudentNotifier) Notify(ctx context.Context, student *models.Student) error {
	if n.email == nil {
		return errors.New("no reminder channel configured")
	}

	if err := n.email.SendReminder(ctx, student.Email, student.Name); err != nil {
		return err
	}

	if n.sms != nil && student.Phone != nil && *student.Phone != "" {
		if err := n.sms.SendReminder(ctx, *student.Phone, student.Name); err != nil {
			n.logger.Warn("sms reminder failed",
				slog.Int("student_id", student.ID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}
