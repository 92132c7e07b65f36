package repository

import (
	"context"
	"errors"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrDuplicateID is returned by Add when the identifier is already stored.
// It should never surface past the service layer under normal flows.
var ErrDuplicateID = errors.New("duplicate id")

// LocationRepository defines operations for locations
type LocationRepository interface {
	Add(ctx context.Context, loc model.Location) (model.Location, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	GetAll(ctx context.Context) ([]model.Location, error)
	Update(ctx context.Context, loc model.Location) (*model.Location, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Clear(ctx context.Context) error
	FindByName(ctx context.Context, name string) (*model.Location, error)
}

// CityRepository defines operations for cities
type CityRepository interface {
	Add(ctx context.Context, city model.City) (model.City, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.City, error)
	GetAll(ctx context.Context) ([]model.City, error)
	Update(ctx context.Context, city model.City) (*model.City, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Clear(ctx context.Context) error
	FindByName(ctx context.Context, name string) (*model.City, error)
	FindByLocationID(ctx context.Context, locationID uuid.UUID) ([]model.City, error)
}

// ConditionRepository defines operations for conditions
type ConditionRepository interface {
	Add(ctx context.Context, cond model.Condition) (model.Condition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Condition, error)
	GetAll(ctx context.Context) ([]model.Condition, error)
	Update(ctx context.Context, cond model.Condition) (*model.Condition, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Clear(ctx context.Context) error
	FindByName(ctx context.Context, name string) (*model.Condition, error)
}

// ReportRepository defines operations for weather reports
type ReportRepository interface {
	Add(ctx context.Context, report model.Report) (model.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	GetAll(ctx context.Context) ([]model.Report, error)
	Update(ctx context.Context, report model.Report) (*model.Report, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Clear(ctx context.Context) error
	// FindByLocationID returns the location's reports newest-first. With
	// latestOnly it returns at most the single most recent report.
	FindByLocationID(ctx context.Context, locationID uuid.UUID, latestOnly bool) ([]model.Report, error)
}

// ReportConditionRepository defines operations for report-condition links
type ReportConditionRepository interface {
	Add(ctx context.Context, link model.ReportCondition) (model.ReportCondition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReportCondition, error)
	GetAll(ctx context.Context) ([]model.ReportCondition, error)
	Update(ctx context.Context, link model.ReportCondition) (*model.ReportCondition, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Clear(ctx context.Context) error
	FindByReportID(ctx context.Context, reportID uuid.UUID) ([]model.ReportCondition, error)
	FindByConditionID(ctx context.Context, conditionID uuid.UUID) ([]model.ReportCondition, error)
}

// Container holds all repositories
type Container struct {
	Location        LocationRepository
	City            CityRepository
	Condition       ConditionRepository
	Report          ReportRepository
	ReportCondition ReportConditionRepository
}

// NewMemoryRepositories creates the in-memory implementations
func NewMemoryRepositories() *Container {
	return &Container{
		Location:        &memoryLocationRepository{newMemoryStore[model.Location]()},
		City:            &memoryCityRepository{newMemoryStore[model.City]()},
		Condition:       &memoryConditionRepository{newMemoryStore[model.Condition]()},
		Report:          &memoryReportRepository{newMemoryStore[model.Report]()},
		ReportCondition: &memoryReportConditionRepository{newMemoryStore[model.ReportCondition]()},
	}
}

// NewSQLRepositories creates implementations backed by a sqlx database.
// The same queries serve SQLite and PostgreSQL through Rebind.
func NewSQLRepositories(db *sqlx.DB) *Container {
	return &Container{
		Location:        &sqlLocationRepository{db: db},
		City:            &sqlCityRepository{db: db},
		Condition:       &sqlConditionRepository{db: db},
		Report:          &sqlReportRepository{db: db},
		ReportCondition: &sqlReportConditionRepository{db: db},
	}
}
