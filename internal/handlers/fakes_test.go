package handlers

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory fakes for the store interfaces. They reproduce the store-side
// behavior the handlers rely on: server-assigned timestamps, grouped counts
// over whatever values exist, and the detail path's newest-first sort.

type fakeFeedbackStore struct {
	records []models.Feedback
	failAll bool
}

var errStoreDown = errors.New("store unavailable")

func (s *fakeFeedbackStore) Create(_ context.Context, feedback *models.Feedback) error {
	if s.failAll {
		return errStoreDown
	}
	feedback.ID = bson.NewObjectID()
	feedback.Timestamp = time.Now()
	s.records = append(s.records, *feedback)
	return nil
}

func (s *fakeFeedbackStore) CountByService(_ context.Context) (map[string]int64, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	counts := map[string]int64{}
	for _, fb := range s.records {
		counts[fb.Service]++
	}
	return counts, nil
}

func (s *fakeFeedbackStore) CountByEmoji(_ context.Context, service string) (map[string]int64, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	counts := map[string]int64{}
	for _, fb := range s.records {
		if fb.Service == service {
			counts[fb.Emoji]++
		}
	}
	return counts, nil
}

func (s *fakeFeedbackStore) FindByService(_ context.Context, service string) ([]models.Feedback, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	result := []models.Feedback{}
	for _, fb := range s.records {
		if fb.Service == service {
			result = append(result, fb)
		}
	}
	return result, nil
}

func (s *fakeFeedbackStore) FindBySentiment(_ context.Context, service, emoji string) ([]models.Feedback, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	result := []models.Feedback{}
	for _, fb := range s.records {
		if fb.Service == service && fb.Emoji == emoji {
			result = append(result, fb)
		}
	}
	return result, nil
}

func (s *fakeFeedbackStore) FindBySentimentNewestFirst(ctx context.Context, service, emoji string) ([]models.Feedback, error) {
	result, err := s.FindBySentiment(ctx, service, emoji)
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}

type fakeAdminStore struct {
	admins map[string]*models.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[string]*models.Admin{}}
}

func (s *fakeAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	admin, ok := s.admins[email]
	if !ok {
		return nil, nil
	}
	copied := *admin
	return &copied, nil
}

func (s *fakeAdminStore) Create(_ context.Context, admin *models.Admin) error {
	admin.ID = bson.NewObjectID()
	copied := *admin
	s.admins[admin.Email] = &copied
	return nil
}

func (s *fakeAdminStore) Update(_ context.Context, admin *models.Admin) error {
	copied := *admin
	s.admins[admin.Email] = &copied
	return nil
}

type fakeTokenStore struct {
	tokens map[string]*models.ResetToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.ResetToken{}}
}

func (s *fakeTokenStore) Create(_ context.Context, token *models.ResetToken) error {
	token.ID = bson.NewObjectID()
	token.CreatedAt = time.Now()
	copied := *token
	s.tokens[token.Token] = &copied
	return nil
}

func (s *fakeTokenStore) FindByToken(_ context.Context, token string) (*models.ResetToken, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTokenStore) MarkUsed(_ context.Context, token string) error {
	if t, ok := s.tokens[token]; ok {
		t.IsUsed = true
	}
	return nil
}

func (s *fakeTokenStore) CountRecentByEmail(_ context.Context, email string, duration time.Duration) (int64, error) {
	since := time.Now().Add(-duration)
	var count int64
	for _, t := range s.tokens {
		if t.Email == email && t.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type fakeBlobStore struct {
	saved   []string
	removed []string
}

func (s *fakeBlobStore) Save(originalName string, _ io.Reader) (string, error) {
	path := "/uploads/fake-" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *fakeBlobStore) Remove(publicPath string) error {
	s.removed = append(s.removed, publicPath)
	return nil
}
