package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/urbansense/placement-core/pkg/models"
)

// MockRepository keeps results in memory for testing/demo mode
type MockRepository struct {
	mu          sync.RWMutex
	networks    map[string]*models.NetworkRecord
	populations map[string]*models.PopulationRecord
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		networks:    make(map[string]*models.NetworkRecord),
		populations: make(map[string]*models.PopulationRecord),
	}
}

// SaveNetwork stores a network result in memory
func (r *MockRepository) SaveNetwork(ctx context.Context, jobID string, rec *models.NetworkRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.networks[jobID] = rec
	return nil
}

// SavePopulation stores a population result in memory
func (r *MockRepository) SavePopulation(ctx context.Context, jobID string, rec *models.PopulationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.populations[jobID] = rec
	return nil
}

// GetNetwork retrieves a network result from memory
func (r *MockRepository) GetNetwork(ctx context.Context, jobID string) (*models.NetworkRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.networks[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, jobID)
	}
	return rec, nil
}

// GetPopulation retrieves a population result from memory
func (r *MockRepository) GetPopulation(ctx context.Context, jobID string) (*models.PopulationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.populations[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, jobID)
	}
	return rec, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
