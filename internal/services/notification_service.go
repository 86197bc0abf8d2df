package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/repository"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo}
}

func (s *NotificationService) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	return s.repo.FindByUser(ctx, userID, limit)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) NotifyUser(ctx context.Context, userID uuid.UUID, title, message, notifType string) error {
	notification := &models.Notification{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	return s.repo.Create(ctx, notification)
}

// NotifyAll fans a notification out to every active user. The loan book is
// shared, so lifecycle events are relevant to all accounts.
func (s *NotificationService) NotifyAll(ctx context.Context, title, message, notifType string) error {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if !user.IsActive() {
			continue
		}
		if err := s.NotifyUser(ctx, user.ID, title, message, notifType); err != nil {
			return err
		}
	}
	return nil
}
