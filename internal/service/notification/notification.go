package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kodwo/sikawallet/internal/logger"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
)

// Mailer delivers the email copy of a notification
type Mailer interface {
	Send(ctx context.Context, to string, subject string, textBody string) error
}

type NotificationService struct {
	storage repository.Storage
	mailer  Mailer
	logger  logger.Logger
}

func NewService(storage repository.Storage, mailer Mailer, l logger.Logger) *NotificationService {
	return &NotificationService{
		storage: storage,
		mailer:  mailer,
		logger:  l,
	}
}

// Notify persists the notification and sends the email copy. The row is
// written in its own atomic unit so a half-written notification is never
// observable. Email failure downgrades the stored status but is not an
// error of the financial operation that triggered it
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, email string, subject string, message string) error {
	status := models.NotificationSent

	mailErr := s.mailer.Send(ctx, email, subject, message)
	if mailErr != nil {
		s.logger.Warn("Failed to send notification email", "error", mailErr, "user_id", userID)
		status = models.NotificationFailed
	}

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		_, err := store.Notification().Create(ctx, models.Notification{
			UserID:  userID,
			Subject: subject,
			Message: message,
			Status:  status,
			Read:    false,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("saving notification: %w", err)
	}

	return mailErr
}
