package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// The SQL repositories keep the same copy-ownership and lookup semantics as
// the memory implementations. Queries use ? placeholders rebound per driver,
// so one implementation serves both SQLite and PostgreSQL.

type sqlLocationRepository struct {
	db *sqlx.DB
}

func (r *sqlLocationRepository) Add(ctx context.Context, loc model.Location) (model.Location, error) {
	existing, err := r.GetByID(ctx, loc.ID)
	if err != nil {
		return model.Location{}, err
	}
	if existing != nil {
		return model.Location{}, fmt.Errorf("%w: %s", ErrDuplicateID, loc.ID)
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO locations (id, name, latitude, longitude, elevation, timezone)
		VALUES (:id, :name, :latitude, :longitude, :elevation, :timezone)`, loc)
	if err != nil {
		return model.Location{}, err
	}
	return loc, nil
}

func (r *sqlLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var loc model.Location
	q := r.db.Rebind("SELECT * FROM locations WHERE id = ?")
	if err := r.db.GetContext(ctx, &loc, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *sqlLocationRepository) GetAll(ctx context.Context) ([]model.Location, error) {
	locs := []model.Location{}
	if err := r.db.SelectContext(ctx, &locs, "SELECT * FROM locations"); err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *sqlLocationRepository) Update(ctx context.Context, loc model.Location) (*model.Location, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE locations
		SET name = :name, latitude = :latitude, longitude = :longitude,
		    elevation = :elevation, timezone = :timezone
		WHERE id = :id`, loc)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &loc, nil
}

func (r *sqlLocationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, "locations", id)
}

func (r *sqlLocationRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM locations")
	return err
}

func (r *sqlLocationRepository) FindByName(ctx context.Context, name string) (*model.Location, error) {
	var loc model.Location
	q := r.db.Rebind("SELECT * FROM locations WHERE name = ? LIMIT 1")
	if err := r.db.GetContext(ctx, &loc, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

type sqlCityRepository struct {
	db *sqlx.DB
}

func (r *sqlCityRepository) Add(ctx context.Context, city model.City) (model.City, error) {
	existing, err := r.GetByID(ctx, city.ID)
	if err != nil {
		return model.City{}, err
	}
	if existing != nil {
		return model.City{}, fmt.Errorf("%w: %s", ErrDuplicateID, city.ID)
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO cities (id, name, country, location_id)
		VALUES (:id, :name, :country, :location_id)`, city)
	if err != nil {
		return model.City{}, err
	}
	return city, nil
}

func (r *sqlCityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.City, error) {
	var city model.City
	q := r.db.Rebind("SELECT * FROM cities WHERE id = ?")
	if err := r.db.GetContext(ctx, &city, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *sqlCityRepository) GetAll(ctx context.Context) ([]model.City, error) {
	cities := []model.City{}
	if err := r.db.SelectContext(ctx, &cities, "SELECT * FROM cities"); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *sqlCityRepository) Update(ctx context.Context, city model.City) (*model.City, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE cities
		SET name = :name, country = :country, location_id = :location_id
		WHERE id = :id`, city)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &city, nil
}

func (r *sqlCityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, "cities", id)
}

func (r *sqlCityRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cities")
	return err
}

func (r *sqlCityRepository) FindByName(ctx context.Context, name string) (*model.City, error) {
	var city model.City
	q := r.db.Rebind("SELECT * FROM cities WHERE name = ? LIMIT 1")
	if err := r.db.GetContext(ctx, &city, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *sqlCityRepository) FindByLocationID(ctx context.Context, locationID uuid.UUID) ([]model.City, error) {
	cities := []model.City{}
	q := r.db.Rebind("SELECT * FROM cities WHERE location_id = ?")
	if err := r.db.SelectContext(ctx, &cities, q, locationID); err != nil {
		return nil, err
	}
	return cities, nil
}

type sqlConditionRepository struct {
	db *sqlx.DB
}

func (r *sqlConditionRepository) Add(ctx context.Context, cond model.Condition) (model.Condition, error) {
	existing, err := r.GetByID(ctx, cond.ID)
	if err != nil {
		return model.Condition{}, err
	}
	if existing != nil {
		return model.Condition{}, fmt.Errorf("%w: %s", ErrDuplicateID, cond.ID)
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO conditions (id, name, type, intensity)
		VALUES (:id, :name, :type, :intensity)`, cond)
	if err != nil {
		return model.Condition{}, err
	}
	return cond, nil
}

func (r *sqlConditionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Condition, error) {
	var cond model.Condition
	q := r.db.Rebind("SELECT * FROM conditions WHERE id = ?")
	if err := r.db.GetContext(ctx, &cond, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cond, nil
}

func (r *sqlConditionRepository) GetAll(ctx context.Context) ([]model.Condition, error) {
	conds := []model.Condition{}
	if err := r.db.SelectContext(ctx, &conds, "SELECT * FROM conditions"); err != nil {
		return nil, err
	}
	return conds, nil
}

func (r *sqlConditionRepository) Update(ctx context.Context, cond model.Condition) (*model.Condition, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE conditions
		SET name = :name, type = :type, intensity = :intensity
		WHERE id = :id`, cond)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &cond, nil
}

func (r *sqlConditionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, "conditions", id)
}

func (r *sqlConditionRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM conditions")
	return err
}

func (r *sqlConditionRepository) FindByName(ctx context.Context, name string) (*model.Condition, error) {
	var cond model.Condition
	q := r.db.Rebind("SELECT * FROM conditions WHERE name = ? LIMIT 1")
	if err := r.db.GetContext(ctx, &cond, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cond, nil
}

type sqlReportRepository struct {
	db *sqlx.DB
}

func (r *sqlReportRepository) Add(ctx context.Context, report model.Report) (model.Report, error) {
	existing, err := r.GetByID(ctx, report.ID)
	if err != nil {
		return model.Report{}, err
	}
	if existing != nil {
		return model.Report{}, fmt.Errorf("%w: %s", ErrDuplicateID, report.ID)
	}
	// Stored in UTC so SQLite's textual timestamp ordering matches instant order.
	report.Timestamp = report.Timestamp.UTC()
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO reports (id, location_id, timestamp, source, temperature_current, temperature_unit, humidity)
		VALUES (:id, :location_id, :timestamp, :source, :temperature_current, :temperature_unit, :humidity)`, report)
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

func (r *sqlReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	q := r.db.Rebind("SELECT * FROM reports WHERE id = ?")
	if err := r.db.GetContext(ctx, &report, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *sqlReportRepository) GetAll(ctx context.Context) ([]model.Report, error) {
	reports := []model.Report{}
	if err := r.db.SelectContext(ctx, &reports, "SELECT * FROM reports"); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *sqlReportRepository) Update(ctx context.Context, report model.Report) (*model.Report, error) {
	report.Timestamp = report.Timestamp.UTC()
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE reports
		SET location_id = :location_id, timestamp = :timestamp, source = :source,
		    temperature_current = :temperature_current, temperature_unit = :temperature_unit,
		    humidity = :humidity
		WHERE id = :id`, report)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &report, nil
}

func (r *sqlReportRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, "reports", id)
}

func (r *sqlReportRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reports")
	return err
}

func (r *sqlReportRepository) FindByLocationID(ctx context.Context, locationID uuid.UUID, latestOnly bool) ([]model.Report, error) {
	reports := []model.Report{}
	query := "SELECT * FROM reports WHERE location_id = ? ORDER BY timestamp DESC"
	if latestOnly {
		query += " LIMIT 1"
	}
	q := r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &reports, q, locationID); err != nil {
		return nil, err
	}
	return reports, nil
}

type sqlReportConditionRepository struct {
	db *sqlx.DB
}

func (r *sqlReportConditionRepository) Add(ctx context.Context, link model.ReportCondition) (model.ReportCondition, error) {
	existing, err := r.GetByID(ctx, link.ID)
	if err != nil {
		return model.ReportCondition{}, err
	}
	if existing != nil {
		return model.ReportCondition{}, fmt.Errorf("%w: %s", ErrDuplicateID, link.ID)
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO report_conditions (id, report_id, condition_id)
		VALUES (:id, :report_id, :condition_id)`, link)
	if err != nil {
		return model.ReportCondition{}, err
	}
	return link, nil
}

func (r *sqlReportConditionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReportCondition, error) {
	var link model.ReportCondition
	q := r.db.Rebind("SELECT * FROM report_conditions WHERE id = ?")
	if err := r.db.GetContext(ctx, &link, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *sqlReportConditionRepository) GetAll(ctx context.Context) ([]model.ReportCondition, error) {
	links := []model.ReportCondition{}
	if err := r.db.SelectContext(ctx, &links, "SELECT * FROM report_conditions"); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *sqlReportConditionRepository) Update(ctx context.Context, link model.ReportCondition) (*model.ReportCondition, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE report_conditions
		SET report_id = :report_id, condition_id = :condition_id
		WHERE id = :id`, link)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &link, nil
}

func (r *sqlReportConditionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, "report_conditions", id)
}

func (r *sqlReportConditionRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM report_conditions")
	return err
}

func (r *sqlReportConditionRepository) FindByReportID(ctx context.Context, reportID uuid.UUID) ([]model.ReportCondition, error) {
	links := []model.ReportCondition{}
	q := r.db.Rebind("SELECT * FROM report_conditions WHERE report_id = ?")
	if err := r.db.SelectContext(ctx, &links, q, reportID); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *sqlReportConditionRepository) FindByConditionID(ctx context.Context, conditionID uuid.UUID) ([]model.ReportCondition, error) {
	links := []model.ReportCondition{}
	q := r.db.Rebind("SELECT * FROM report_conditions WHERE condition_id = ?")
	if err := r.db.SelectContext(ctx, &links, q, conditionID); err != nil {
		return nil, err
	}
	return links, nil
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID) (bool, error) {
	q := db.Rebind("DELETE FROM " + table + " WHERE id = ?")
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
