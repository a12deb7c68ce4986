package store

import (
	"context"
	"math"
	"sync"

	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/models"
)

// InMemoryStore implements Store using in-memory storage
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int
	users  []models.User
	alerts []models.LocationAlert
	issues []models.ClimateIssue
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) allocateID() int {
	id := s.nextID
	s.nextID++
	return id
}

// CreateUser stores a user, enforcing username uniqueness
func (s *InMemoryStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return models.User{}, apperrors.ErrConflict
		}
	}

	user.ID = s.allocateID()
	s.users = append(s.users, user)
	return user, nil
}

// ListUsers returns all users
func (s *InMemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

// CreateAlert stores a location alert
func (s *InMemoryStore) CreateAlert(ctx context.Context, alert models.LocationAlert) (models.LocationAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = s.allocateID()
	s.alerts = append(s.alerts, alert)
	return alert, nil
}

// ListAlerts returns all location alerts
func (s *InMemoryStore) ListAlerts(ctx context.Context) ([]models.LocationAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LocationAlert, len(s.alerts))
	copy(out, s.alerts)
	return out, nil
}

// CreateIssue stores a climate issue
func (s *InMemoryStore) CreateIssue(ctx context.Context, issue models.ClimateIssue) (models.ClimateIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue.ID = s.allocateID()
	s.issues = append(s.issues, issue)
	return issue, nil
}

// ListIssues returns all climate issues
func (s *InMemoryStore) ListIssues(ctx context.Context) ([]models.ClimateIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ClimateIssue, len(s.issues))
	copy(out, s.issues)
	return out, nil
}

// DashboardStats aggregates issue count and average severity
func (s *InMemoryStore) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.DashboardStats{TotalIssues: len(s.issues)}
	if len(s.issues) == 0 {
		return stats, nil
	}

	sum := 0
	for _, issue := range s.issues {
		sum += issue.Severity
	}
	avg := float64(sum) / float64(len(s.issues))
	stats.AverageSeverity = math.Round(avg*100) / 100
	return stats, nil
}

// Health always returns nil for in-memory store
func (s *InMemoryStore) Health(ctx context.Context) error {
	return nil
}
