package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/google/uuid"
)

// entity is anything the generic store can key by identifier.
type entity interface {
	EntityID() uuid.UUID
}

// memoryStore is a map-backed keyed store. The store owns canonical state:
// entities are plain value structs, so every value going in or out is a copy
// and callers can never alias stored state. Access is guarded by an RWMutex
// because the HTTP server handles requests concurrently.
type memoryStore[T entity] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]T
	order []uuid.UUID
}

func newMemoryStore[T entity]() *memoryStore[T] {
	return &memoryStore[T]{items: make(map[uuid.UUID]T)}
}

func (s *memoryStore[T]) Add(_ context.Context, e T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	id := e.EntityID()
	if _, exists := s.items[id]; exists {
		return zero, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	s.items[id] = e
	s.order = append(s.order, id)
	return e, nil
}

func (s *memoryStore[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// GetAll returns every entity in insertion order. The order is not part of
// the contract; callers must not rely on it.
func (s *memoryStore[T]) GetAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]T, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.items[id])
	}
	return all, nil
}

func (s *memoryStore[T]) Update(_ context.Context, e T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.EntityID()
	if _, exists := s.items[id]; !exists {
		return nil, nil
	}
	s.items[id] = e
	return &e, nil
}

func (s *memoryStore[T]) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return false, nil
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *memoryStore[T]) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[uuid.UUID]T)
	s.order = nil
	return nil
}

// --- Specialized repositories ---

type memoryLocationRepository struct {
	*memoryStore[model.Location]
}

func (r *memoryLocationRepository) FindByName(_ context.Context, name string) (*model.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if e := r.items[id]; e.Name == name {
			return &e, nil
		}
	}
	return nil, nil
}

type memoryCityRepository struct {
	*memoryStore[model.City]
}

func (r *memoryCityRepository) FindByName(_ context.Context, name string) (*model.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if e := r.items[id]; e.Name == name {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *memoryCityRepository) FindByLocationID(_ context.Context, locationID uuid.UUID) ([]model.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cities []model.City
	for _, id := range r.order {
		if e := r.items[id]; e.LocationID == locationID {
			cities = append(cities, e)
		}
	}
	return cities, nil
}

type memoryConditionRepository struct {
	*memoryStore[model.Condition]
}

func (r *memoryConditionRepository) FindByName(_ context.Context, name string) (*model.Condition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if e := r.items[id]; e.Name == name {
			return &e, nil
		}
	}
	return nil, nil
}

type memoryReportRepository struct {
	*memoryStore[model.Report]
}

func (r *memoryReportRepository) FindByLocationID(_ context.Context, locationID uuid.UUID, latestOnly bool) ([]model.Report, error) {
	r.mu.RLock()
	var reports []model.Report
	for _, id := range r.order {
		if e := r.items[id]; e.LocationID == locationID {
			reports = append(reports, e)
		}
	}
	r.mu.RUnlock()

	// Compare on a single UTC basis so inputs parsed with and without zone
	// offsets order consistently. Equal timestamps keep insertion order.
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp.UTC().After(reports[j].Timestamp.UTC())
	})
	if latestOnly && len(reports) > 1 {
		reports = reports[:1]
	}
	return reports, nil
}

type memoryReportConditionRepository struct {
	*memoryStore[model.ReportCondition]
}

func (r *memoryReportConditionRepository) FindByReportID(_ context.Context, reportID uuid.UUID) ([]model.ReportCondition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []model.ReportCondition
	for _, id := range r.order {
		if e := r.items[id]; e.ReportID == reportID {
			links = append(links, e)
		}
	}
	return links, nil
}

func (r *memoryReportConditionRepository) FindByConditionID(_ context.Context, conditionID uuid.UUID) ([]model.ReportCondition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []model.ReportCondition
	for _, id := range r.order {
		if e := r.items[id]; e.ConditionID == conditionID {
			links = append(links, e)
		}
	}
	return links, nil
}
