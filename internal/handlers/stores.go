package handlers

import (
	"context"
	"time"

	"feedback-backend/internal/models"
)

// Store interfaces consumed by the handlers. The repository package provides
// the Mongo-backed implementations; tests substitute in-memory fakes.

type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	CountByService(ctx context.Context) (map[string]int64, error)
	CountByEmoji(ctx context.Context, service string) (map[string]int64, error)
	FindByService(ctx context.Context, service string) ([]models.Feedback, error)
	FindBySentiment(ctx context.Context, service, emoji string) ([]models.Feedback, error)
	FindBySentimentNewestFirst(ctx context.Context, service, emoji string) ([]models.Feedback, error)
}

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
}

type ResetTokenStore interface {
	Create(ctx context.Context, token *models.ResetToken) error
	FindByToken(ctx context.Context, token string) (*models.ResetToken, error)
	MarkUsed(ctx context.Context, token string) error
	CountRecentByEmail(ctx context.Context, email string, duration time.Duration) (int64, error)
}
